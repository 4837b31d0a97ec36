// Package builder produces the dashboard image through the Docker Engine API.
//
// The build is all-or-nothing: any dependency resolution or installation error
// inside the Dockerfile aborts the build, and no runnable artifact is tagged.
// Layer atomicity itself is provided by the engine.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
)

// Error definitions for image builds.
var (
	// ErrBuildAPINil is returned when the build API client is nil.
	ErrBuildAPINil = errors.New("build API client cannot be nil")
	// ErrBuildFailed is returned when the engine reports a build error.
	ErrBuildFailed = errors.New("image build failed")
	// ErrContextNotFound is returned when the build context directory does not exist.
	ErrContextNotFound = errors.New("build context directory not found")
	// ErrDockerfileNotFound is returned when the Dockerfile is missing from the context.
	ErrDockerfileNotFound = errors.New("dockerfile not found in build context")
	// ErrManifestNotFound is returned when the dependency manifest is missing from the context.
	ErrManifestNotFound = errors.New("dependency manifest not found in build context")
	// ErrAppDirNotFound is returned when the application directory is missing from the context.
	ErrAppDirNotFound = errors.New("application directory not found in build context")
)

// LabelKey marks images and containers as managed by dashdock.
const LabelKey = "dev.dashdock.dashboard"

// BuildAPI is the subset of the Docker Engine API the builder needs.
// client.APIClient satisfies it.
type BuildAPI interface {
	ImageBuild(
		ctx context.Context,
		buildContext io.Reader,
		options build.ImageBuildOptions,
	) (build.ImageBuildResponse, error)
}

// Options describes a single image build.
type Options struct {
	// ContextDir is the build context directory.
	ContextDir string
	// Dockerfile is the Dockerfile path relative to the context.
	Dockerfile string
	// Manifest is the dependency manifest path relative to the context.
	Manifest string
	// AppDir is the application file tree relative to the context.
	AppDir string
	// Tag is the image reference to tag on success.
	Tag string
	// Name labels the image with the dashboard name.
	Name string
	// Pull forces pulling a newer version of the base image.
	Pull bool
}

// ImageBuilder builds dashboard images.
type ImageBuilder interface {
	Build(ctx context.Context, opts Options, output io.Writer) error
}

// Builder implements ImageBuilder against the Docker Engine API.
type Builder struct {
	api BuildAPI
}

// NewBuilder creates a Builder.
func NewBuilder(api BuildAPI) (*Builder, error) {
	if api == nil {
		return nil, ErrBuildAPINil
	}

	return &Builder{api: api}, nil
}

// Build assembles the build context, runs the engine build, and streams
// progress to output. It fails before any engine call when the context,
// Dockerfile, or dependency manifest is missing.
func (b *Builder) Build(ctx context.Context, opts Options, output io.Writer) error {
	err := validateInputs(opts)
	if err != nil {
		return err
	}

	buildContext, err := archive.TarWithOptions(opts.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer func() { _ = buildContext.Close() }()

	response, err := b.api.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:        []string{opts.Tag},
		Dockerfile:  opts.Dockerfile,
		Remove:      true,
		ForceRemove: true,
		PullParent:  opts.Pull,
		Labels:      buildLabels(opts.Name),
	})
	if err != nil {
		return fmt.Errorf("failed to start image build: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	return drainBuildOutput(response.Body, output)
}

// validateInputs checks the build inputs exist before any engine call.
func validateInputs(opts Options) error {
	info, err := os.Stat(opts.ContextDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrContextNotFound, opts.ContextDir)
	}

	_, err = os.Stat(filepath.Join(opts.ContextDir, opts.Dockerfile))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDockerfileNotFound, opts.Dockerfile)
	}

	if opts.Manifest != "" {
		_, err = os.Stat(filepath.Join(opts.ContextDir, opts.Manifest))
		if err != nil {
			return fmt.Errorf("%w: %s", ErrManifestNotFound, opts.Manifest)
		}
	}

	if opts.AppDir != "" && opts.AppDir != "." {
		appInfo, statErr := os.Stat(filepath.Join(opts.ContextDir, opts.AppDir))
		if statErr != nil || !appInfo.IsDir() {
			return fmt.Errorf("%w: %s", ErrAppDirNotFound, opts.AppDir)
		}
	}

	return nil
}

// buildLabels returns the dashdock labels for built images.
func buildLabels(name string) map[string]string {
	if name == "" {
		return nil
	}

	return map[string]string{LabelKey: name}
}

// drainBuildOutput decodes the engine's JSON progress stream and surfaces
// build errors. The engine reports failures inside the stream, not as an
// ImageBuild error.
func drainBuildOutput(body io.Reader, output io.Writer) error {
	if output == nil {
		output = io.Discard
	}

	err := jsonmessage.DisplayJSONMessagesStream(body, output, 0, false, nil)
	if err != nil {
		var jsonErr *jsonmessage.JSONError
		if errors.As(err, &jsonErr) {
			return fmt.Errorf("%w: %s", ErrBuildFailed, jsonErr.Message)
		}

		return fmt.Errorf("failed to read build output: %w", err)
	}

	return nil
}
