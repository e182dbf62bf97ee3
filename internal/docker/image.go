package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/pkg/archive"
)

// buildLine is one JSON message from the daemon's build output stream.
type buildLine struct {
	Stream string `json:"stream"`
	Error  string `json:"error"`
}

// BuildImage builds an image from the Dockerfile in contextDir, tagging it
// with tag. Build output is streamed to out. The daemon reports failures
// inside the stream, so the whole stream is consumed before returning.
func (c *Client) BuildImage(ctx context.Context, contextDir, dockerfile, tag string, out io.Writer) error {
	buildCtx, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("tar build context: %w", err)
	}
	defer buildCtx.Close()

	resp, err := c.api.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("image build: %w", err)
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	for {
		var line buildLine
		if err := dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read build output: %w", err)
		}
		if line.Error != "" {
			return fmt.Errorf("build failed: %s", line.Error)
		}
		if line.Stream != "" {
			fmt.Fprint(out, line.Stream)
		}
	}
}
