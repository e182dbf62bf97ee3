package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"obsdemo/internal/docker"
)

var (
	runName   string
	runImage  string
	runPorts  []string
	runEnv    []string
	runAutoRm bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the API container",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := docker.ParsePortSpecs(runPorts)
		if err != nil {
			return err
		}

		cli, err := docker.NewClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		id, err := cli.RunContainer(cmd.Context(), docker.RunOptions{
			Name:       runName,
			Image:      runImage,
			Ports:      ports,
			Env:        runEnv,
			AutoRemove: runAutoRm,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", defaultContainer, "container name")
	runCmd.Flags().StringVar(&runImage, "image", defaultImage, "image to run")
	runCmd.Flags().StringSliceVarP(&runPorts, "publish", "p", []string{"8080:8080"}, "port mappings (hostPort:containerPort[/protocol])")
	runCmd.Flags().StringSliceVarP(&runEnv, "env", "e", nil, "environment variables (KEY=VALUE)")
	runCmd.Flags().BoolVar(&runAutoRm, "rm", true, "remove the container when it exits")
	rootCmd.AddCommand(runCmd)
}
