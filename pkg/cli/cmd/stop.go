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

// NewStopCmd creates the stop command that stops the dashboard container.
func NewStopCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the dashboard container",
		Long:  "Stop the dashboard container without removing it; start resumes it later.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleStopRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleStopRunE stops the dashboard container.
func handleStopRunE(
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

	writeTitle(cmd, "⏸️", "Stopping dashboard...")

	name := cfg.ContainerName()

	err = l.Stop(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, launcher.ErrNotFound) {
			notify.Successf(cmd.OutOrStdout(), "dashboard '%s' does not exist", name)

			return nil
		}

		return fmt.Errorf("failed to stop dashboard: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "dashboard '%s' stopped",
		Args:    []any{name},
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
