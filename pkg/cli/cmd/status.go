package cmd

import (
	"errors"
	"fmt"
	"strings"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command that reports the dashboard state.
func NewStatusCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard container status",
		Long:  "Report the dashboard container's state, published port, and exit code.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleStatusRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleStatusRunE reports the dashboard container status.
func handleStatusRunE(
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

	name := cfg.ContainerName()

	status, err := l.Status(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, launcher.ErrNotFound) {
			notify.Infof(cmd.OutOrStdout(), "dashboard '%s' does not exist, run 'dashdock up' to create it", name)

			return nil
		}

		return fmt.Errorf("failed to get dashboard status: %w", err)
	}

	writeStatus(cmd, status)

	return nil
}

// writeStatus renders a single container status.
func writeStatus(cmd *cobra.Command, status launcher.Status) {
	if strings.EqualFold(status.State, "running") {
		notify.Successf(
			cmd.OutOrStdout(),
			"dashboard '%s' is running at http://localhost:%d",
			status.Name,
			status.Port,
		)

		return
	}

	if strings.EqualFold(status.State, "exited") {
		notify.Warningf(
			cmd.OutOrStdout(),
			"dashboard '%s' exited with code %d",
			status.Name,
			status.ExitCode,
		)

		return
	}

	notify.Infof(cmd.OutOrStdout(), "dashboard '%s' is %s", status.Name, status.State)
}
