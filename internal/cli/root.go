// Package cli implements the obsctl command tree: build, run, logs and
// smoke operations against the observability demo API and its container.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

const (
	defaultImage     = "obs-demo-api:local"
	defaultContainer = "obs-demo"
	defaultBaseURL   = "http://localhost:8080"
)

var rootCmd = &cobra.Command{
	Use:   "obsctl",
	Short: "Operations CLI for the observability demo API",
	Long: `obsctl builds, runs and smoke-tests the observability demo API container.
It talks to the Docker Engine API directly instead of shelling out to the
docker binary.`,
	SilenceUsage: true,
}

// Execute runs the root command with the given context. Cancelling the
// context stops long-running subcommands such as logs -f.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
