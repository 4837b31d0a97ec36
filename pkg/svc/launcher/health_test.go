package launcher_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// healthServer runs a local HTTP server standing in for the dashboard and
// returns a fake engine reporting its port as the published host port.
func healthServer(t *testing.T, status int) *fakeEngine {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != launcher.HealthEndpointPath {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	_, portStr, err := net.SplitHostPort(server.Listener.Addr().String())
	require.NoError(t, err)

	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	summary := runningContainer()
	summary.Ports = []container.Port{
		{PrivatePort: 8501, PublicPort: uint16(port), Type: "tcp"},
	}

	return &fakeEngine{containers: []container.Summary{summary}}
}

func TestWaitReadyWithTimeout_Ready(t *testing.T) {
	t.Parallel()

	l := newLauncher(t, healthServer(t, http.StatusOK))

	err := l.WaitReadyWithTimeout(context.Background(), "dashboard", 5*time.Second)

	require.NoError(t, err)
}

func TestWaitReadyWithTimeout_TimesOut(t *testing.T) {
	t.Parallel()

	l := newLauncher(t, healthServer(t, http.StatusServiceUnavailable))

	err := l.WaitReadyWithTimeout(context.Background(), "dashboard", 600*time.Millisecond)

	require.ErrorIs(t, err, launcher.ErrNotReady)
	assert.ErrorIs(t, err, launcher.ErrUnexpectedStatus)
}

func TestWaitReadyWithTimeout_NotRunning(t *testing.T) {
	t.Parallel()

	stopped := runningContainer()
	stopped.State = "exited"

	l := newLauncher(t, &fakeEngine{containers: []container.Summary{stopped}})

	err := l.WaitReadyWithTimeout(context.Background(), "dashboard", time.Second)

	require.ErrorIs(t, err, launcher.ErrNotFound)
}

func TestWaitReadyWithTimeout_Cancelled(t *testing.T) {
	t.Parallel()

	l := newLauncher(t, healthServer(t, http.StatusServiceUnavailable))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.WaitReadyWithTimeout(ctx, "dashboard", 5*time.Second)

	require.ErrorIs(t, err, launcher.ErrHealthCheckCancelled)
}
