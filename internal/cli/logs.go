package cli

import (
	"github.com/spf13/cobra"

	"obsdemo/internal/docker"
)

var logsName string

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Follow logs of the API container",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := docker.NewClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		return cli.FollowLogs(cmd.Context(), logsName, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsName, "name", defaultContainer, "container name")
	rootCmd.AddCommand(logsCmd)
}
