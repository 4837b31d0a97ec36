package launcher

import (
	"context"
	"fmt"
	"io"
	"time"

	dockerclient "github.com/dashdock/dashdock/pkg/client/docker"
)

// ContainerLauncher is the launcher surface the CLI commands use. It exists so
// tests can inject fakes without a container engine.
type ContainerLauncher interface {
	Run(ctx context.Context, spec RunSpec) (string, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Status(ctx context.Context, name string) (Status, error)
	HostPort(ctx context.Context, name string) (int, error)
	IsRunning(ctx context.Context, name string) (bool, error)
	WaitExit(ctx context.Context, name string) (int64, error)
	WaitReadyWithTimeout(ctx context.Context, name string, timeout time.Duration) error
	StreamLogs(ctx context.Context, name string, stdout, stderr io.Writer, opts LogOptions) error
}

// Compile-time interface compliance verification.
var _ ContainerLauncher = (*Launcher)(nil)

// Factory creates a ContainerLauncher. The default implementation connects to
// the local container engine; tests provide fakes.
type Factory interface {
	Create(ctx context.Context) (ContainerLauncher, error)
}

// DefaultFactory creates launchers backed by the Docker Engine API.
type DefaultFactory struct{}

// Create connects to the engine and returns a real launcher.
func (DefaultFactory) Create(_ context.Context) (ContainerLauncher, error) {
	apiClient, err := dockerclient.GetDockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to container engine: %w", err)
	}

	l, err := NewLauncher(apiClient)
	if err != nil {
		return nil, err
	}

	return l, nil
}
