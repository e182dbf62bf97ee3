package docker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// RunOptions describe the container to create and start.
type RunOptions struct {
	Name       string
	Image      string
	Ports      []PortMapping
	Env        []string
	AutoRemove bool
}

// RunContainer creates and starts a container, returning its ID.
func (c *Client) RunContainer(ctx context.Context, opts RunOptions) (string, error) {
	exposed, bindings, err := natConfig(opts.Ports)
	if err != nil {
		return "", err
	}

	cfg := &container.Config{
		Image:        opts.Image,
		Env:          opts.Env,
		ExposedPorts: exposed,
	}
	hostCfg := &container.HostConfig{
		PortBindings: bindings,
		AutoRemove:   opts.AutoRemove,
	}

	resp, err := c.api.ContainerCreate(ctx, cfg, hostCfg, nil, nil, opts.Name)
	if err != nil {
		return "", fmt.Errorf("container create: %w", err)
	}

	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("container start: %w", err)
	}

	return resp.ID, nil
}

// FollowLogs streams the container's stdout/stderr until the context is
// cancelled or the container stops. The multiplexed stream is demuxed into
// the two writers.
func (c *Client) FollowLogs(ctx context.Context, nameOrID string, stdout, stderr io.Writer) error {
	logs, err := c.api.ContainerLogs(ctx, nameOrID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return fmt.Errorf("container logs: %w", err)
	}
	defer logs.Close()

	if _, err := stdcopy.StdCopy(stdout, stderr, logs); err != nil {
		// Interrupting a follow is the normal way to stop it
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("stream logs: %w", err)
	}
	return nil
}
