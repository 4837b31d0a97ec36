package cmd

import (
	"fmt"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStartCmd creates the start command that starts a stopped dashboard.
func NewStartCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a stopped dashboard container",
		Long:  "Start the existing dashboard container and wait for it to become ready.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleStartRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleStartRunE starts the existing dashboard container.
func handleStartRunE(
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

	l, err := resolveLauncher(cmd, rt)
	if err != nil {
		return err
	}

	writeTitle(cmd, "▶️", "Starting dashboard...")
	warnPermissiveCORS(cmd, cfg)

	running, err := l.IsRunning(cmd.Context(), cfg.ContainerName())
	if err != nil {
		return err
	}

	if running {
		notify.Successf(cmd.OutOrStdout(), "dashboard '%s' is already running", cfg.ContainerName())

		return nil
	}

	err = l.Start(cmd.Context(), cfg.ContainerName())
	if err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}

	return waitDashboardReady(cmd, l, cfg, tmr)
}
