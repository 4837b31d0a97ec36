package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
	runtime "github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/io/configmanager"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// NewUpCmd creates the up command that builds and runs the dashboard.
func NewUpCmd(rt *runtime.Runtime) *cobra.Command {
	var manager *configmanager.ConfigManager

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Build and run the dashboard",
		Long: "Build the dashboard image and run it as a single foreground container. " +
			"With --detach the command returns once the dashboard is ready.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handleUpRunE(cmd, rt, manager)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Bool("detach", false, "Run the dashboard in the background")
	cmd.Flags().Bool("pull", false, "Always attempt to pull a newer version of the base image")
	cmd.Flags().Bool("skip-build", false, "Run the existing image without rebuilding")

	manager = configmanager.NewCommandConfigManager(cmd)

	return cmd
}

// handleUpRunE builds the image, starts the container, waits for readiness,
// and in foreground mode follows it until exit.
func handleUpRunE(
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

	skipBuild, _ := cmd.Flags().GetBool("skip-build")
	if !skipBuild {
		err = buildImage(cmd, rt, cfg, tmr)
		if err != nil {
			return err
		}
	}

	l, err := resolveLauncher(cmd, rt)
	if err != nil {
		return err
	}

	writeTitle(cmd, "🚀", "Starting dashboard...")
	warnPermissiveCORS(cmd, cfg)

	tmr.NewStage()

	_, err = l.Run(cmd.Context(), launcher.RunSpec{
		Name:          cfg.ContainerName(),
		Image:         cfg.ImageRef(),
		Port:          cfg.Spec.Server.Port,
		Env:           cfg.Spec.Runtime.Env,
		RestartPolicy: cfg.Spec.Runtime.RestartPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	err = waitDashboardReady(cmd, l, cfg, tmr)
	if err != nil {
		return err
	}

	detach, _ := cmd.Flags().GetBool("detach")
	if detach || cfg.Spec.Runtime.Detach {
		return nil
	}

	return followDashboard(cmd.Context(), cmd, l, cfg.ContainerName())
}

// waitDashboardReady blocks until the dashboard answers its health endpoint.
func waitDashboardReady(
	cmd *cobra.Command,
	l launcher.ContainerLauncher,
	cfg *v1alpha1.Dashboard,
	tmr timer.Timer,
) error {
	notify.Activityf(cmd.OutOrStdout(), "waiting for dashboard to become ready")

	err := l.WaitReadyWithTimeout(
		cmd.Context(),
		cfg.ContainerName(),
		cfg.Spec.Server.ReadyTimeout.Duration,
	)
	if err != nil {
		return fmt.Errorf("dashboard did not become ready: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "dashboard ready at http://localhost:%d",
		Args:    []any{cfg.Spec.Server.Port},
		Timer:   tmr,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

// followDashboard streams the container's output and propagates its exit code.
// The container owns the process lifecycle; when it exits, so does the command.
func followDashboard(
	ctx context.Context,
	cmd *cobra.Command,
	l launcher.ContainerLauncher,
	name string,
) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return l.StreamLogs(groupCtx, name, cmd.OutOrStdout(), cmd.ErrOrStderr(), launcher.LogOptions{
			Follow: true,
		})
	})

	var exitCode int64

	group.Go(func() error {
		code, err := l.WaitExit(groupCtx, name)
		if err != nil {
			return err
		}

		exitCode = code

		// Stop the log follower; the stream has no more producers.
		return context.Canceled
	})

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed while following dashboard: %w", err)
	}

	if exitCode != 0 {
		return &launcher.ExitCodeError{Code: int(exitCode)}
	}

	return nil
}
