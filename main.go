// Package main is the entry point for the dashdock application.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/dashdock/dashdock/internal/buildmeta"
	"github.com/dashdock/dashdock/pkg/cli/cmd"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/notify"
)

func main() {
	exitCode := runSafely(os.Args[1:], runWithArgs, os.Stderr)

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(args []string, runner func([]string) int, errWriter io.Writer) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			panicMessage := fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack())
			notify.WriteMessage(notify.Message{
				Type:    notify.ErrorType,
				Content: panicMessage,
				Writer:  errWriter,
			})

			exitCode = 1
		}
	}()

	exitCode = runner(args)

	return exitCode
}

func runWithArgs(args []string) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)

	err := cmd.Execute(rootCmd)
	if err != nil {
		// A foreground dashboard's exit code becomes the process exit code so
		// an external supervisor can react to it.
		var exitErr *launcher.ExitCodeError
		if errors.As(err, &exitErr) {
			notify.Errorf(rootCmd.ErrOrStderr(), "dashboard exited with code %d", exitErr.Code)

			return exitErr.Code
		}

		notify.Errorf(rootCmd.ErrOrStderr(), "%v", err)

		return 1
	}

	return 0
}
