package cmd

import (
	"fmt"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/svc/builder"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/spf13/cobra"
)

// writeTitle prints a stage title for a command.
func writeTitle(cmd *cobra.Command, emoji, title string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: title,
		Emoji:   emoji,
		Writer:  cmd.OutOrStdout(),
	})
}

// loadConfig loads the typed dashboard configuration for a command.
func loadConfig(
	manager *configmanager.ConfigManager,
	tmr timer.Timer,
) (*v1alpha1.Dashboard, error) {
	cfg, err := manager.LoadConfig(tmr)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// resolveLauncher resolves the launcher factory and creates a launcher.
func resolveLauncher(cmd *cobra.Command, rt *runtime.Runtime) (launcher.ContainerLauncher, error) {
	factory, err := runtime.ResolveLauncherFactory(rt.Injector())
	if err != nil {
		return nil, err
	}

	l, err := factory.Create(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to create launcher: %w", err)
	}

	return l, nil
}

// resolveBuilder resolves the builder factory and creates an image builder.
func resolveBuilder(cmd *cobra.Command, rt *runtime.Runtime) (builder.ImageBuilder, error) {
	factory, err := runtime.ResolveBuilderFactory(rt.Injector())
	if err != nil {
		return nil, err
	}

	b, err := factory.Create(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to create builder: %w", err)
	}

	return b, nil
}

// warnPermissiveCORS surfaces the disabled-CORS posture whenever the dashboard
// is started with the server's cross-origin protection off.
func warnPermissiveCORS(cmd *cobra.Command, cfg *v1alpha1.Dashboard) {
	if cfg.Spec.Server.EnableCORS {
		return
	}

	notify.Warningf(
		cmd.OutOrStdout(),
		"CORS protection is disabled (spec.server.enableCORS: false); review before exposing beyond localhost",
	)
}
