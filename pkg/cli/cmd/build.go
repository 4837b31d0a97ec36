package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/io/manifest"
	"github.com/dashdock/dashdock/pkg/svc/builder"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/spf13/cobra"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
)

// NewBuildCmd creates the build command that produces the dashboard image.
func NewBuildCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the dashboard image",
		Long:  "Build the dashboard image from the Dockerfile and dependency manifest in the build context.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleBuildRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("pull", false, "Always attempt to pull a newer version of the base image")

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleBuildRunE builds the dashboard image.
func handleBuildRunE(
	cmd *cobra.Command,
	rt *runtime.Runtime,
	manager *configmanager.ConfigManager,
) error {
	tmr, err := runtime.ResolveTimer(rt.Injector())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(manager, tmr)
	if err != nil {
		return err
	}

	return buildImage(cmd, rt, cfg, tmr)
}

// buildImage runs a full image build for the effective configuration. It is
// shared by the build and up commands.
func buildImage(
	cmd *cobra.Command,
	rt *runtime.Runtime,
	cfg *v1alpha1.Dashboard,
	tmr timer.Timer,
) error {
	imageBuilder, err := resolveBuilder(cmd, rt)
	if err != nil {
		return err
	}

	writeTitle(cmd, "📦", "Building image...")
	warnUnpinnedDependencies(cmd, cfg)

	pull, _ := cmd.Flags().GetBool("pull")

	notify.Activityf(cmd.OutOrStdout(), "building '%s' from '%s'", cfg.ImageRef(), cfg.Spec.Build.Context)

	err = imageBuilder.Build(cmd.Context(), builder.Options{
		ContextDir: cfg.Spec.Build.Context,
		Dockerfile: cfg.Spec.Build.Dockerfile,
		Manifest:   cfg.Spec.Build.Manifest,
		AppDir:     cfg.Spec.Build.AppDir,
		Tag:        cfg.ImageRef(),
		Name:       cfg.Name,
		Pull:       pull,
	}, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "image '%s' built",
		Args:    []any{cfg.ImageRef()},
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

// warnUnpinnedDependencies flags manifest entries without an exact version pin.
// Unpinned entries make image builds non-reproducible.
func warnUnpinnedDependencies(cmd *cobra.Command, cfg *v1alpha1.Dashboard) {
	manifestPath := filepath.Join(cfg.Spec.Build.Context, cfg.Spec.Build.Manifest)

	parsed, err := manifest.Load(manifestPath)
	if err != nil {
		if errors.Is(err, manifest.ErrEmptyManifest) {
			notify.Warningf(cmd.OutOrStdout(), "dependency manifest '%s' is empty", manifestPath)
		}

		// Missing manifests fail later with a precise builder error.
		return
	}

	for _, entry := range parsed.Unpinned() {
		notify.Warningf(
			cmd.OutOrStdout(),
			"dependency '%s' is not pinned to an exact version; builds may not be reproducible",
			entry.Raw,
		)
	}
}
