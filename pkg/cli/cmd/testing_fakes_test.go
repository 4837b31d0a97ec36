package cmd_test

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/dashdock/dashdock/pkg/di"
	"github.com/dashdock/dashdock/pkg/svc/builder"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// fakeLauncher is an in-memory ContainerLauncher recording the calls commands make.
type fakeLauncher struct {
	runSpec    launcher.RunSpec
	runCalls   int
	runErr     error
	startCalls []string
	startErr   error
	stopCalls  []string
	stopErr    error
	removed    []string
	removeErr  error

	running   bool
	status    launcher.Status
	statusErr error

	readyCalls   int
	readyTimeout time.Duration
	readyErr     error

	exitCode int64
	waitErr  error

	logOpts  launcher.LogOptions
	logLines string
	logErr   error
}

func (f *fakeLauncher) Run(_ context.Context, spec launcher.RunSpec) (string, error) {
	f.runCalls++
	f.runSpec = spec

	if f.runErr != nil {
		return "", f.runErr
	}

	return "cid-1", nil
}

func (f *fakeLauncher) Start(_ context.Context, name string) error {
	f.startCalls = append(f.startCalls, name)

	return f.startErr
}

func (f *fakeLauncher) Stop(_ context.Context, name string) error {
	if f.stopErr != nil {
		return f.stopErr
	}

	f.stopCalls = append(f.stopCalls, name)

	return nil
}

func (f *fakeLauncher) Remove(_ context.Context, name string) error {
	if f.removeErr != nil {
		return f.removeErr
	}

	f.removed = append(f.removed, name)

	return nil
}

func (f *fakeLauncher) Status(_ context.Context, _ string) (launcher.Status, error) {
	return f.status, f.statusErr
}

func (f *fakeLauncher) HostPort(_ context.Context, _ string) (int, error) {
	return f.status.Port, nil
}

func (f *fakeLauncher) IsRunning(_ context.Context, _ string) (bool, error) {
	return f.running, nil
}

func (f *fakeLauncher) WaitExit(_ context.Context, _ string) (int64, error) {
	return f.exitCode, f.waitErr
}

func (f *fakeLauncher) WaitReadyWithTimeout(_ context.Context, _ string, timeout time.Duration) error {
	f.readyCalls++
	f.readyTimeout = timeout

	return f.readyErr
}

func (f *fakeLauncher) StreamLogs(
	_ context.Context,
	_ string,
	stdout, _ io.Writer,
	opts launcher.LogOptions,
) error {
	f.logOpts = opts

	if f.logErr != nil {
		return f.logErr
	}

	_, _ = io.WriteString(stdout, f.logLines)

	return nil
}

// fakeBuilder records build options without touching a container engine.
type fakeBuilder struct {
	opts   builder.Options
	calls  int
	err    error
	output string
}

func (f *fakeBuilder) Build(_ context.Context, opts builder.Options, output io.Writer) error {
	f.calls++
	f.opts = opts

	if f.err != nil {
		return f.err
	}

	_, _ = io.WriteString(output, f.output)

	return nil
}

type fakeLauncherFactory struct{ launcher launcher.ContainerLauncher }

func (f fakeLauncherFactory) Create(context.Context) (launcher.ContainerLauncher, error) {
	return f.launcher, nil
}

type fakeBuilderFactory struct{ builder builder.ImageBuilder }

func (f fakeBuilderFactory) Create(context.Context) (builder.ImageBuilder, error) {
	return f.builder, nil
}

// newTestRuntime builds a runtime with the fakes in place of engine-backed factories.
func newTestRuntime(fakeL *fakeLauncher, fakeB *fakeBuilder) *di.Runtime {
	return di.New(
		func(i di.Injector) error {
			do.Provide(i, func(di.Injector) (timer.Timer, error) {
				return timer.New(), nil
			})

			return nil
		},
		func(i di.Injector) error {
			do.Provide(i, func(di.Injector) (launcher.Factory, error) {
				return fakeLauncherFactory{launcher: fakeL}, nil
			})

			return nil
		},
		func(i di.Injector) error {
			do.Provide(i, func(di.Injector) (builder.Factory, error) {
				return fakeBuilderFactory{builder: fakeB}, nil
			})

			return nil
		},
	)
}

// executeCommand runs the command with args and returns combined output.
func executeCommand(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}
