package cmd

import (
	"fmt"

	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/io/scaffolder"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/spf13/cobra"
)

// NewInitCmd creates the init command that scaffolds a dashdock project.
func NewInitCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a dashboard project",
		Long:  "Generate the dashdock configuration, Dockerfile, and a seed dependency manifest.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleInitRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("output", ".", "Directory to scaffold the project into")
	cmd.Flags().Bool("force", false, "Overwrite existing files")

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleInitRunE scaffolds the project files from the effective configuration.
func handleInitRunE(
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

	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	writeTitle(cmd, "🗂️", "Initializing project...")

	err = scaffolder.NewScaffolder(cfg, cmd.OutOrStdout()).Scaffold(output, force)
	if err != nil {
		return fmt.Errorf("failed to scaffold project: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "project initialized",
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
