package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const metricsBodyLimit = 2048

var (
	smokeBaseURL string
	smokeCPUMS   int
	smokeWait    time.Duration
)

var smokeCmd = &cobra.Command{
	Use:   "smoke",
	Short: "Run a smoke test against a running API instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 10 * time.Second}
		return runSmoke(cmd.Context(), client, smokeBaseURL, smokeCPUMS, smokeWait, cmd.OutOrStdout())
	},
}

type smokeCheck struct {
	name     string
	path     string
	truncate int
}

func runSmoke(ctx context.Context, client *http.Client, baseURL string, cpuMS int, wait time.Duration, out io.Writer) error {
	baseURL = strings.TrimRight(baseURL, "/")

	if err := waitReady(ctx, client, baseURL+"/healthz", wait); err != nil {
		return err
	}

	checks := []smokeCheck{
		{name: "healthz", path: "/healthz"},
		{name: "work", path: fmt.Sprintf("/work?cpu_ms=%d", cpuMS)},
		{name: "metrics", path: "/metrics", truncate: metricsBodyLimit},
	}

	for _, check := range checks {
		status, body, err := fetch(ctx, client, baseURL+check.path)
		if err != nil {
			return fmt.Errorf("%s: %w", check.name, err)
		}

		if check.truncate > 0 && len(body) > check.truncate {
			body = body[:check.truncate] + "\n... (truncated)"
		}

		fmt.Fprintf(out, "=== %s (%d)\n%s\n", check.name, status, body)

		if status != http.StatusOK {
			return fmt.Errorf("%s: unexpected status %d", check.name, status)
		}
	}

	fmt.Fprintln(out, "smoke test passed")
	return nil
}

// waitReady polls the health endpoint until it answers 200 or the wait
// budget runs out, so smoke can follow run without an arbitrary sleep.
func waitReady(ctx context.Context, client *http.Client, url string, wait time.Duration) error {
	deadline := time.Now().Add(wait)

	for {
		status, _, err := fetch(ctx, client, url)
		if err == nil && status == http.StatusOK {
			return nil
		}

		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("service not ready after %s: %w", wait, err)
			}
			return fmt.Errorf("service not ready after %s: status %d", wait, status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
}

func fetch(ctx context.Context, client *http.Client, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", err
	}

	return resp.StatusCode, strings.TrimRight(string(body), "\n"), nil
}

func init() {
	smokeCmd.Flags().StringVar(&smokeBaseURL, "url", defaultBaseURL, "base URL of the running API")
	smokeCmd.Flags().IntVar(&smokeCPUMS, "cpu-ms", 200, "cpu_ms value for the work check")
	smokeCmd.Flags().DurationVar(&smokeWait, "wait", 15*time.Second, "how long to wait for the service to become ready")
	rootCmd.AddCommand(smokeCmd)
}
