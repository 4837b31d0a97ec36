package launcher

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// LogOptions controls log streaming.
type LogOptions struct {
	// Follow keeps the stream open for new output.
	Follow bool
	// Timestamps prefixes each line with its timestamp.
	Timestamps bool
	// Tail limits output to the last N lines ("all" when empty).
	Tail string
}

// StreamLogs copies the dashboard container's stdout and stderr to the given
// writers. The streams are multiplexed by the engine and demultiplexed here.
// Because the dashboard runs with unbuffered output, lines appear as the
// process writes them rather than on exit.
func (l *Launcher) StreamLogs(
	ctx context.Context,
	name string,
	stdout, stderr io.Writer,
	opts LogOptions,
) error {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	tail := opts.Tail
	if tail == "" {
		tail = "all"
	}

	reader, err := l.api.ContainerLogs(ctx, summary.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     opts.Follow,
		Timestamps: opts.Timestamps,
		Tail:       tail,
	})
	if err != nil {
		return fmt.Errorf("failed to open dashboard log stream: %w", err)
	}
	defer func() { _ = reader.Close() }()

	_, err = stdcopy.StdCopy(stdout, stderr, reader)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to copy dashboard logs: %w", err)
	}

	return nil
}
