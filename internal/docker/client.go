// Package docker wraps the Docker Engine API for the operations the CLI
// performs: image builds, container runs and log streaming.
package docker

import (
	"fmt"

	"github.com/docker/docker/client"
)

// Client is a thin wrapper over the Docker Engine client.
type Client struct {
	api *client.Client
}

// NewClient creates a Docker client from the environment (DOCKER_HOST etc.)
// with API version negotiation.
func NewClient() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}
	return &Client{api: cli}, nil
}

// Close releases the underlying client's resources.
func (c *Client) Close() error {
	return c.api.Close()
}
