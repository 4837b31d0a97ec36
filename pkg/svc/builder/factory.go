package builder

import (
	"context"
	"fmt"

	dockerclient "github.com/dashdock/dashdock/pkg/client/docker"
)

// Compile-time interface compliance verification.
var _ ImageBuilder = (*Builder)(nil)

// Factory creates an ImageBuilder. The default implementation connects to the
// local container engine; tests provide fakes.
type Factory interface {
	Create(ctx context.Context) (ImageBuilder, error)
}

// DefaultFactory creates builders backed by the Docker Engine API.
type DefaultFactory struct{}

// Create connects to the engine and returns a real builder.
func (DefaultFactory) Create(_ context.Context) (ImageBuilder, error) {
	apiClient, err := dockerclient.GetDockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to container engine: %w", err)
	}

	b, err := NewBuilder(apiClient)
	if err != nil {
		return nil, err
	}

	return b, nil
}
