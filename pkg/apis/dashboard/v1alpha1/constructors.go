package v1alpha1

import (
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Defaults for the Dashboard configuration.
const (
	// DefaultName is the dashboard name used when none is configured.
	DefaultName = "dashboard"
	// DefaultImageName is the image repository used when none is configured.
	DefaultImageName = "dashdock-dashboard"
	// DefaultImageTag is the image tag used when none is configured.
	DefaultImageTag = "latest"
	// DefaultBaseImage is the base runtime image for generated Dockerfiles.
	DefaultBaseImage = "python:3.11-slim"
	// DefaultDockerfile is the Dockerfile path relative to the build context.
	DefaultDockerfile = "Dockerfile"
	// DefaultManifest is the dependency manifest path relative to the build context.
	DefaultManifest = "requirements.txt"
	// DefaultEntrypoint is the dashboard script the server runs.
	DefaultEntrypoint = "ui.py"
	// DefaultPort is the TCP port the dashboard binds and publishes.
	DefaultPort = 8501
	// DefaultReadyTimeout bounds the startup window for the readiness probe.
	DefaultReadyTimeout = 10 * time.Second
	// DefaultRestartPolicy leaves restart-on-crash to an external orchestrator.
	DefaultRestartPolicy = "no"
)

// NewDashboard creates a new Dashboard with default values.
func NewDashboard() *Dashboard {
	return &Dashboard{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: DefaultName,
		},
		Spec: NewSpec(),
	}
}

// NewSpec creates a new Spec with default values.
func NewSpec() Spec {
	return Spec{
		Image: ImageSpec{
			Name: DefaultImageName,
			Tag:  DefaultImageTag,
			Base: DefaultBaseImage,
		},
		Build: BuildSpec{
			Context:    ".",
			Dockerfile: DefaultDockerfile,
			Manifest:   DefaultManifest,
			AppDir:     ".",
			Entrypoint: DefaultEntrypoint,
		},
		Server: ServerSpec{
			Port:         DefaultPort,
			EnableCORS:   false,
			ReadyTimeout: metav1.Duration{Duration: DefaultReadyTimeout},
		},
		Runtime: RuntimeSpec{
			RestartPolicy: DefaultRestartPolicy,
			Env:           map[string]string{},
		},
	}
}

// ImageRef returns the image reference ("name:tag") for the dashboard.
func (d *Dashboard) ImageRef() string {
	name := d.Spec.Image.Name
	if name == "" {
		name = DefaultImageName
	}

	tag := d.Spec.Image.Tag
	if tag == "" {
		tag = DefaultImageTag
	}

	return name + ":" + tag
}

// ContainerName returns the effective container name for the dashboard.
func (d *Dashboard) ContainerName() string {
	if d.Spec.Runtime.ContainerName != "" {
		return d.Spec.Runtime.ContainerName
	}

	if d.Name != "" {
		return d.Name
	}

	return DefaultName
}
