// Package launcher manages the single dashboard container at the Docker
// Engine API boundary: create, start, stop, remove, status, logs, readiness,
// and exit-code propagation. Restart-on-crash is deliberately out of scope;
// that belongs to whatever orchestrator runs the launcher.
package launcher

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	// LabelKey marks containers as managed by dashdock.
	LabelKey = "dev.dashdock.dashboard"

	// DefaultStartTimeout bounds container start calls.
	DefaultStartTimeout = 30 * time.Second
	// DefaultStopTimeout bounds container stop calls.
	DefaultStopTimeout = 60 * time.Second
)

// Bytecode-cache and output-buffering contract. Baked into generated images
// and injected again at create time so the contract holds for images built
// elsewhere: no stale compiled-cache artifacts between runs, and stdout/stderr
// flushed line-by-line for external log collectors.
const (
	EnvNoBytecodeCache = "PYTHONDONTWRITEBYTECODE=1"
	EnvUnbuffered      = "PYTHONUNBUFFERED=1"
)

// EngineAPI is the subset of the Docker Engine API the launcher needs.
// client.APIClient satisfies it.
type EngineAPI interface {
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerWait(
		ctx context.Context,
		containerID string,
		condition container.WaitCondition,
	) (<-chan container.WaitResponse, <-chan error)
}

// RunSpec describes the dashboard container to create and start.
type RunSpec struct {
	// Name is the container name.
	Name string
	// Image is the image reference to run.
	Image string
	// Port is the container port to expose and publish on the same host port.
	Port int
	// Env holds additional environment variables (KEY=VALUE not required;
	// plain key/value pairs).
	Env map[string]string
	// RestartPolicy is passed through to the engine ("no" delegates restart
	// entirely to an external supervisor).
	RestartPolicy string
}

// Status describes the observed state of the dashboard container.
type Status struct {
	// Name is the container name.
	Name string
	// State is the engine-reported state ("running", "exited", ...).
	State string
	// ExitCode is meaningful when State is "exited".
	ExitCode int
	// Port is the published host port, zero when unbound.
	Port int
	// StartedAt is the engine-reported start time, empty when never started.
	StartedAt string
}

// Launcher manages the dashboard container.
type Launcher struct {
	api EngineAPI
}

// NewLauncher creates a Launcher.
func NewLauncher(api EngineAPI) (*Launcher, error) {
	if api == nil {
		return nil, ErrEngineAPINil
	}

	return &Launcher{api: api}, nil
}

// Run creates and starts the dashboard container. Exactly one container may
// hold the name and port; if one already exists the call fails with
// ErrAlreadyExists instead of creating a twin.
func (l *Launcher) Run(ctx context.Context, spec RunSpec) (string, error) {
	_, exists, err := l.findContainer(ctx, spec.Name)
	if err != nil {
		return "", err
	}

	if exists {
		return "", fmt.Errorf("%w: %s", ErrAlreadyExists, spec.Name)
	}

	containerConfig, err := buildContainerConfig(spec)
	if err != nil {
		return "", err
	}

	hostConfig, err := buildHostConfig(spec)
	if err != nil {
		return "", err
	}

	created, err := l.api.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create dashboard container: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, DefaultStartTimeout)
	defer cancel()

	err = l.api.ContainerStart(startCtx, created.ID, container.StartOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to start dashboard container: %w", err)
	}

	return created.ID, nil
}

// Start starts an existing, stopped dashboard container.
func (l *Launcher) Start(ctx context.Context, name string) error {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	startCtx, cancel := context.WithTimeout(ctx, DefaultStartTimeout)
	defer cancel()

	err = l.api.ContainerStart(startCtx, summary.ID, container.StartOptions{})
	if err != nil {
		return fmt.Errorf("failed to start dashboard container %s: %w", name, err)
	}

	return nil
}

// Stop stops the dashboard container if it is running.
func (l *Launcher) Stop(ctx context.Context, name string) error {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if !strings.EqualFold(summary.State, "running") {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, DefaultStopTimeout)
	defer cancel()

	err = l.api.ContainerStop(stopCtx, summary.ID, container.StopOptions{})
	if err != nil {
		return fmt.Errorf("failed to stop dashboard container %s: %w", name, err)
	}

	return nil
}

// Remove stops and removes the dashboard container.
func (l *Launcher) Remove(ctx context.Context, name string) error {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	err = l.api.ContainerRemove(ctx, summary.ID, container.RemoveOptions{Force: true})
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil
		}

		return fmt.Errorf("failed to remove dashboard container %s: %w", name, err)
	}

	return nil
}

// Status reports the observed state of the dashboard container.
func (l *Launcher) Status(ctx context.Context, name string) (Status, error) {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return Status{}, err
	}

	if !exists {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	inspect, err := l.api.ContainerInspect(ctx, summary.ID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to inspect dashboard container %s: %w", name, err)
	}

	status := Status{
		Name: name,
		Port: hostPortFromSummary(summary),
	}

	if inspect.State != nil {
		status.State = inspect.State.Status
		status.ExitCode = inspect.State.ExitCode
		status.StartedAt = inspect.State.StartedAt
	}

	return status, nil
}

// HostPort returns the published host port of the dashboard container.
func (l *Launcher) HostPort(ctx context.Context, name string) (int, error) {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return 0, err
	}

	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	port := hostPortFromSummary(summary)
	if port == 0 {
		return 0, fmt.Errorf("%w: %s", ErrPortNotFound, name)
	}

	return port, nil
}

// IsRunning reports whether the dashboard container is running.
func (l *Launcher) IsRunning(ctx context.Context, name string) (bool, error) {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return false, err
	}

	if !exists {
		return false, nil
	}

	return strings.EqualFold(summary.State, "running"), nil
}

// WaitExit blocks until the dashboard container exits and returns its exit
// code. The container's exit code, for any reason, is the launcher's exit
// code contract with an external supervisor.
func (l *Launcher) WaitExit(ctx context.Context, name string) (int64, error) {
	summary, exists, err := l.findContainer(ctx, name)
	if err != nil {
		return 0, err
	}

	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	responseCh, errCh := l.api.ContainerWait(ctx, summary.ID, container.WaitConditionNotRunning)

	select {
	case response := <-responseCh:
		if response.Error != nil {
			return response.StatusCode, fmt.Errorf(
				"dashboard container wait reported: %s",
				response.Error.Message,
			)
		}

		return response.StatusCode, nil
	case waitErr := <-errCh:
		return 0, fmt.Errorf("failed to wait for dashboard container %s: %w", name, waitErr)
	case <-ctx.Done():
		return 0, fmt.Errorf("dashboard container wait cancelled: %w", ctx.Err())
	}
}

// findContainer locates the dashdock-managed container with the exact name.
func (l *Launcher) findContainer(
	ctx context.Context,
	name string,
) (container.Summary, bool, error) {
	filterArgs := filters.NewArgs()
	// Exact name match with regex anchors to avoid partial matches.
	filterArgs.Add("name", "^/"+name+"$")
	filterArgs.Add("label", LabelKey)

	containers, err := l.api.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return container.Summary{}, false, fmt.Errorf(
			"failed to list dashboard containers: %w",
			err,
		)
	}

	if len(containers) == 0 {
		return container.Summary{}, false, nil
	}

	return containers[0], true, nil
}

// Configuration builders.

// buildContainerConfig builds the container configuration for the dashboard.
// The no-bytecode-cache and unbuffered-output variables are always injected;
// user-provided env comes after so the launch contract cannot be overridden
// accidentally by ordering.
func buildContainerConfig(spec RunSpec) (*container.Config, error) {
	exposedPort, err := containerPort(spec.Port)
	if err != nil {
		return nil, err
	}

	env := []string{EnvNoBytecodeCache, EnvUnbuffered}
	env = append(env, sortedEnv(spec.Env)...)

	return &container.Config{
		Image: spec.Image,
		Env:   env,
		ExposedPorts: nat.PortSet{
			exposedPort: struct{}{},
		},
		Labels: map[string]string{LabelKey: spec.Name},
	}, nil
}

// buildHostConfig builds the host configuration publishing the dashboard port
// on the same host port.
func buildHostConfig(spec RunSpec) (*container.HostConfig, error) {
	exposedPort, err := containerPort(spec.Port)
	if err != nil {
		return nil, err
	}

	restartPolicy := spec.RestartPolicy
	if restartPolicy == "" {
		restartPolicy = "no"
	}

	return &container.HostConfig{
		PortBindings: nat.PortMap{
			exposedPort: []nat.PortBinding{
				{HostPort: strconv.Itoa(spec.Port)},
			},
		},
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyMode(restartPolicy),
		},
	}, nil
}

// containerPort converts the configured port into a nat.Port.
func containerPort(port int) (nat.Port, error) {
	exposedPort, err := nat.NewPort("tcp", strconv.Itoa(port))
	if err != nil {
		return "", fmt.Errorf("invalid dashboard port %d: %w", port, err)
	}

	return exposedPort, nil
}

// sortedEnv renders an env map as deterministic KEY=VALUE pairs.
func sortedEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}

	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+env[key])
	}

	return pairs
}

// hostPortFromSummary extracts the published host port for the container's
// private port binding.
func hostPortFromSummary(summary container.Summary) int {
	for _, port := range summary.Ports {
		if port.PublicPort > 0 {
			return int(port.PublicPort)
		}
	}

	return 0
}
