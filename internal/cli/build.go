package cli

import (
	"github.com/spf13/cobra"

	"obsdemo/internal/docker"
)

var (
	buildTag        string
	buildDockerfile string
	buildContextDir string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the API container image",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := docker.NewClient()
		if err != nil {
			return err
		}
		defer cli.Close()

		return cli.BuildImage(cmd.Context(), buildContextDir, buildDockerfile, buildTag, cmd.OutOrStdout())
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildTag, "tag", "t", defaultImage, "image tag")
	buildCmd.Flags().StringVarP(&buildDockerfile, "file", "f", "Dockerfile", "path of the Dockerfile relative to the build context")
	buildCmd.Flags().StringVar(&buildContextDir, "context", ".", "build context directory")
	rootCmd.AddCommand(buildCmd)
}
