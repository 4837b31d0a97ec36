package cmd

import (
	"fmt"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/spf13/cobra"
)

// NewLogsCmd creates the logs command that streams dashboard output.
func NewLogsCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Stream dashboard container logs",
		Long:  "Stream the dashboard container's stdout and stderr.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleLogsRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Bool("timestamps", false, "Show timestamps")
	cmd.Flags().String("tail", "all", "Number of lines to show from the end of the logs")

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleLogsRunE streams the dashboard container's logs.
func handleLogsRunE(
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

	follow, _ := cmd.Flags().GetBool("follow")
	timestamps, _ := cmd.Flags().GetBool("timestamps")
	tail, _ := cmd.Flags().GetString("tail")

	err = l.StreamLogs(
		cmd.Context(),
		cfg.ContainerName(),
		cmd.OutOrStdout(),
		cmd.ErrOrStderr(),
		launcher.LogOptions{
			Follow:     follow,
			Timestamps: timestamps,
			Tail:       tail,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to stream dashboard logs: %w", err)
	}

	return nil
}
