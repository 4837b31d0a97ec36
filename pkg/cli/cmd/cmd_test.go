package cmd_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dashdock/dashdock/pkg/cli/cmd"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	code := m.Run()

	snaps.Clean(m)
	os.Exit(code)
}

func writeBuildContext(t *testing.T, requirements string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte("FROM scratch\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte(requirements), 0o600))
	t.Chdir(dir)
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("1.0.0", "abc123", "2026-08-24")

	expected := []string{"init", "build", "up", "down", "start", "stop", "status", "logs"}

	for _, name := range expected {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true

				break
			}
		}

		assert.True(t, found, "expected subcommand %q", name)
	}

	assert.Contains(t, root.Version, "1.0.0")
	assert.Contains(t, root.Version, "abc123")
}

func TestRootCmd_Help(t *testing.T) {
	root := cmd.NewRootCmd("dev", "none", "unknown")

	out, err := executeCommand(root, "--help")
	require.NoError(t, err)

	snaps.MatchSnapshot(t, out)
}

func TestInitCmd_ScaffoldsProject(t *testing.T) {
	t.Chdir(t.TempDir())

	rt := newTestRuntime(&fakeLauncher{}, &fakeBuilder{})

	out, err := executeCommand(cmd.NewInitCmd(rt))
	require.NoError(t, err)

	assert.FileExists(t, "dashdock.yaml")
	assert.FileExists(t, "Dockerfile")
	assert.FileExists(t, "requirements.txt")
	assert.Contains(t, out, "project initialized")
}

func TestBuildCmd_BuildsImage(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeB := &fakeBuilder{output: "Step 1/5\n"}
	rt := newTestRuntime(&fakeLauncher{}, fakeB)

	out, err := executeCommand(cmd.NewBuildCmd(rt))
	require.NoError(t, err)

	assert.Equal(t, 1, fakeB.calls)
	assert.Equal(t, "dashdock-dashboard:latest", fakeB.opts.Tag)
	assert.Equal(t, "Dockerfile", fakeB.opts.Dockerfile)
	assert.Equal(t, "requirements.txt", fakeB.opts.Manifest)
	assert.Contains(t, out, "image 'dashdock-dashboard:latest' built")
}

func TestBuildCmd_WarnsOnUnpinnedDependencies(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\nnumpy>=1.26\n")

	rt := newTestRuntime(&fakeLauncher{}, &fakeBuilder{})

	out, err := executeCommand(cmd.NewBuildCmd(rt))
	require.NoError(t, err)

	assert.Contains(t, out, "numpy>=1.26")
	assert.Contains(t, out, "not pinned")
}

func TestBuildCmd_BuildFailureIsFatal(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	rt := newTestRuntime(&fakeLauncher{}, &fakeBuilder{err: assert.AnError})

	_, err := executeCommand(cmd.NewBuildCmd(rt))

	require.ErrorIs(t, err, assert.AnError)
}

func TestUpCmd_Detached(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{}
	fakeB := &fakeBuilder{}
	rt := newTestRuntime(fakeL, fakeB)

	out, err := executeCommand(cmd.NewUpCmd(rt), "--detach")
	require.NoError(t, err)

	assert.Equal(t, 1, fakeB.calls)
	assert.Equal(t, 1, fakeL.runCalls)
	assert.Equal(t, "dashboard", fakeL.runSpec.Name)
	assert.Equal(t, "dashdock-dashboard:latest", fakeL.runSpec.Image)
	assert.Equal(t, 8501, fakeL.runSpec.Port)
	assert.Equal(t, "no", fakeL.runSpec.RestartPolicy)
	assert.Equal(t, 1, fakeL.readyCalls)
	assert.Equal(t, 10*time.Second, fakeL.readyTimeout)
	assert.Contains(t, out, "dashboard ready at http://localhost:8501")
	assert.Contains(t, out, "CORS protection is disabled")
}

func TestUpCmd_SkipBuild(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{}
	fakeB := &fakeBuilder{}
	rt := newTestRuntime(fakeL, fakeB)

	_, err := executeCommand(cmd.NewUpCmd(rt), "--detach", "--skip-build")
	require.NoError(t, err)

	assert.Zero(t, fakeB.calls)
	assert.Equal(t, 1, fakeL.runCalls)
}

func TestUpCmd_ForegroundPropagatesExitCode(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{exitCode: 3, logLines: "server log line\n"}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewUpCmd(rt))

	var exitErr *launcher.ExitCodeError

	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Contains(t, out, "server log line")
}

func TestUpCmd_ForegroundCleanExit(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{exitCode: 0}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	_, err := executeCommand(cmd.NewUpCmd(rt))

	require.NoError(t, err)
}

func TestUpCmd_TwinConflict(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{runErr: launcher.ErrAlreadyExists}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	_, err := executeCommand(cmd.NewUpCmd(rt), "--detach")

	require.ErrorIs(t, err, launcher.ErrAlreadyExists)
}

func TestUpCmd_NotReadyIsFatal(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{readyErr: launcher.ErrNotReady}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	_, err := executeCommand(cmd.NewUpCmd(rt), "--detach")

	require.ErrorIs(t, err, launcher.ErrNotReady)
}

func TestDownCmd_StopsAndRemoves(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewDownCmd(rt))
	require.NoError(t, err)

	assert.Equal(t, []string{"dashboard"}, fakeL.stopCalls)
	assert.Equal(t, []string{"dashboard"}, fakeL.removed)
	assert.Contains(t, out, "dashboard 'dashboard' removed")
}

func TestDownCmd_AlreadyRemoved(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{stopErr: launcher.ErrNotFound}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewDownCmd(rt))
	require.NoError(t, err)

	assert.Contains(t, out, "already removed")
	assert.Empty(t, fakeL.removed)
}

func TestStartCmd_StartsAndWaitsReady(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStartCmd(rt))
	require.NoError(t, err)

	assert.Equal(t, []string{"dashboard"}, fakeL.startCalls)
	assert.Equal(t, 1, fakeL.readyCalls)
	assert.Contains(t, out, "dashboard ready")
}

func TestStartCmd_AlreadyRunning(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{running: true}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStartCmd(rt))
	require.NoError(t, err)

	assert.Empty(t, fakeL.startCalls)
	assert.Contains(t, out, "already running")
}

func TestStopCmd_Stops(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStopCmd(rt))
	require.NoError(t, err)

	assert.Equal(t, []string{"dashboard"}, fakeL.stopCalls)
	assert.Contains(t, out, "dashboard 'dashboard' stopped")
}

func TestStatusCmd_Running(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{
		status: launcher.Status{Name: "dashboard", State: "running", Port: 8501},
	}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStatusCmd(rt))
	require.NoError(t, err)

	assert.Contains(t, out, "running at http://localhost:8501")
}

func TestStatusCmd_Exited(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{
		status: launcher.Status{Name: "dashboard", State: "exited", ExitCode: 137},
	}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStatusCmd(rt))
	require.NoError(t, err)

	assert.Contains(t, out, "exited with code 137")
}

func TestStatusCmd_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{statusErr: launcher.ErrNotFound}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStatusCmd(rt))
	require.NoError(t, err)

	assert.Contains(t, out, "does not exist")
}

func TestLogsCmd_StreamsLogs(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{logLines: "line 1\nline 2\n"}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewLogsCmd(rt), "--follow", "--tail", "10")
	require.NoError(t, err)

	assert.True(t, fakeL.logOpts.Follow)
	assert.Equal(t, "10", fakeL.logOpts.Tail)
	assert.Contains(t, out, "line 1")
}

func TestConfigOverridesViaFlags(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	_, err := executeCommand(
		cmd.NewUpCmd(rt),
		"--detach",
		"--name", "sales",
		"--image", "sales-dash",
		"--tag", "v2",
		"--port", "9001",
		"--ready-timeout", "30s",
	)
	require.NoError(t, err)

	assert.Equal(t, "sales", fakeL.runSpec.Name)
	assert.Equal(t, "sales-dash:v2", fakeL.runSpec.Image)
	assert.Equal(t, 9001, fakeL.runSpec.Port)
	assert.Equal(t, 30*time.Second, fakeL.readyTimeout)
}

func TestConfigOverridesViaEnv(t *testing.T) {
	writeBuildContext(t, "streamlit==1.37.0\n")
	t.Setenv("DASHDOCK_SPEC_SERVER_PORT", "9002")

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	_, err := executeCommand(cmd.NewUpCmd(rt), "--detach")
	require.NoError(t, err)

	assert.Equal(t, 9002, fakeL.runSpec.Port)
}

func TestStartCmd_EnableCORSSuppressesWarning(t *testing.T) {
	t.Chdir(t.TempDir())

	fakeL := &fakeLauncher{}
	rt := newTestRuntime(fakeL, &fakeBuilder{})

	out, err := executeCommand(cmd.NewStartCmd(rt), "--enable-cors")
	require.NoError(t, err)

	assert.NotContains(t, out, "CORS protection is disabled")
}
