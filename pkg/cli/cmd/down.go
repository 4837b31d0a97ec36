package cmd

import (
	"errors"
	"fmt"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewDownCmd creates the down command that stops and removes the dashboard.
func NewDownCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Stop and remove the dashboard container",
		Long:  "Stop the dashboard container and remove it. The image is kept for the next up.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleDownRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleDownRunE stops and removes the dashboard container.
func handleDownRunE(
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

	writeTitle(cmd, "🛬", "Tearing down dashboard...")

	name := cfg.ContainerName()

	err = l.Stop(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, launcher.ErrNotFound) {
			notify.Successf(cmd.OutOrStdout(), "dashboard '%s' is already removed", name)

			return nil
		}

		return fmt.Errorf("failed to stop dashboard: %w", err)
	}

	err = l.Remove(cmd.Context(), name)
	if err != nil && !errors.Is(err, launcher.ErrNotFound) {
		return fmt.Errorf("failed to remove dashboard: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "dashboard '%s' removed",
		Args:    []any{name},
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
