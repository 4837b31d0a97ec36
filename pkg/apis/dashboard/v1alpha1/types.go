// Package v1alpha1 defines the dashdock Dashboard configuration API.
package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// APIVersion is the API version for the Dashboard configuration kind.
	APIVersion = "launcher.dashdock.dev/v1alpha1"
	// Kind is the configuration kind name.
	Kind = "Dashboard"
)

// Dashboard is the typed configuration for a dashdock-managed dashboard.
// It is constructed once at process start and passed by reference to the
// subsystems that need it.
type Dashboard struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec Spec `json:"spec,omitempty"`
}

// Spec holds the launcher configuration.
type Spec struct {
	// Image describes the container image to build and run.
	Image ImageSpec `json:"image,omitempty"`
	// Build describes how the image is assembled.
	Build BuildSpec `json:"build,omitempty"`
	// Server describes the dashboard server's listening contract.
	Server ServerSpec `json:"server,omitempty"`
	// Runtime describes how the container is run.
	Runtime RuntimeSpec `json:"runtime,omitempty"`
}

// ImageSpec describes the dashboard image.
type ImageSpec struct {
	// Name is the image repository name.
	Name string `json:"name,omitempty"`
	// Tag is the image tag.
	Tag string `json:"tag,omitempty"`
	// Base is the base runtime image the Dockerfile starts from.
	Base string `json:"base,omitempty"`
}

// BuildSpec describes the build inputs.
type BuildSpec struct {
	// Context is the build context directory.
	Context string `json:"context,omitempty"`
	// Dockerfile is the Dockerfile path relative to the context.
	Dockerfile string `json:"dockerfile,omitempty"`
	// Manifest is the dependency manifest path relative to the context.
	Manifest string `json:"manifest,omitempty"`
	// AppDir is the application file tree copied into the image, relative to the context.
	AppDir string `json:"appDir,omitempty"`
	// Entrypoint is the dashboard script the server runs.
	Entrypoint string `json:"entrypoint,omitempty"`
}

// ServerSpec describes the dashboard server contract.
type ServerSpec struct {
	// Port is the TCP port the dashboard process binds. The same port is
	// published on the host.
	Port int `json:"port,omitempty"`
	// EnableCORS toggles the dashboard server's built-in cross-origin
	// protection. The packaged recipe ships with CORS disabled; dashdock
	// surfaces this as an explicit setting and warns whenever it is off.
	EnableCORS bool `json:"enableCORS"`
	// ReadyTimeout bounds the startup window before the readiness probe gives up.
	ReadyTimeout metav1.Duration `json:"readyTimeout,omitempty"`
}

// RuntimeSpec describes container runtime settings.
type RuntimeSpec struct {
	// ContainerName overrides the container name. Defaults to the metadata name.
	ContainerName string `json:"containerName,omitempty"`
	// RestartPolicy is passed through to the container engine. Restart-on-crash
	// is an orchestrator concern; the default is "no".
	RestartPolicy string `json:"restartPolicy,omitempty"`
	// Env holds additional environment variables injected at container start.
	// Values may reference host environment with ${VAR} placeholders.
	Env map[string]string `json:"env,omitempty"`
	// Detach runs the container in the background instead of streaming its
	// output in the foreground.
	Detach bool `json:"detach,omitempty"`
}
