package launcher

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Readiness probe configuration.
const (
	// HealthEndpointPath is the dashboard server's health endpoint.
	HealthEndpointPath = "/_stcore/health"
	// HealthHostIP is the address the probe connects to.
	HealthHostIP = "127.0.0.1"
	// DefaultReadyTimeout is the maximum time to wait for the dashboard to become ready.
	DefaultReadyTimeout = 10 * time.Second
	// ReadyPollInterval is the interval between readiness checks.
	ReadyPollInterval = 500 * time.Millisecond
	// HealthHTTPTimeout is the timeout for individual health check requests.
	HealthHTTPTimeout = 2 * time.Second
)

// WaitReady waits for the dashboard to become ready by polling its health
// endpoint on the published host port.
func (l *Launcher) WaitReady(ctx context.Context, name string) error {
	return l.WaitReadyWithTimeout(ctx, name, DefaultReadyTimeout)
}

// WaitReadyWithTimeout waits for the dashboard with a custom startup window.
func (l *Launcher) WaitReadyWithTimeout(
	ctx context.Context,
	name string,
	timeout time.Duration,
) error {
	checkURL, err := l.prepareHealthCheck(ctx, name)
	if err != nil {
		return err
	}

	return pollUntilReady(ctx, name, checkURL, timeout)
}

// prepareHealthCheck validates the container is running and returns the health
// check URL on the published host port.
func (l *Launcher) prepareHealthCheck(ctx context.Context, name string) (string, error) {
	running, err := l.IsRunning(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check if dashboard %s is running: %w", name, err)
	}

	if !running {
		return "", fmt.Errorf("dashboard %s is not running: %w", name, ErrNotFound)
	}

	port, err := l.HostPort(ctx, name)
	if err != nil {
		return "", err
	}

	checkAddr := net.JoinHostPort(HealthHostIP, strconv.Itoa(port))

	return fmt.Sprintf("http://%s%s", checkAddr, HealthEndpointPath), nil
}

// pollUntilReady polls the health endpoint until it responds or the timeout expires.
func pollUntilReady(
	ctx context.Context,
	name string,
	checkURL string,
	timeout time.Duration,
) error {
	httpClient := &http.Client{Timeout: HealthHTTPTimeout}
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(ReadyPollInterval)

	defer ticker.Stop()

	var lastErr error

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrHealthCheckCancelled, ctx.Err())
		case <-ticker.C:
			if time.Now().After(deadline) {
				return buildTimeoutError(name, lastErr)
			}

			ready, err := checkHealth(ctx, httpClient, checkURL)
			if err != nil {
				lastErr = err

				continue
			}

			if ready {
				return nil
			}
		}
	}
}

// checkHealth performs a single readiness request.
// Returns (true, nil) if ready, (false, error) if not ready yet.
func checkHealth(ctx context.Context, httpClient *http.Client, checkURL string) (bool, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if reqErr != nil {
		return false, fmt.Errorf("failed to create health check request: %w", reqErr)
	}

	resp, respErr := httpClient.Do(req)
	if respErr != nil {
		return false, fmt.Errorf("health check request failed: %w", respErr)
	}

	_ = resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return true, nil
	}

	return false, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
}

// buildTimeoutError creates the timeout error with optional last error context.
func buildTimeoutError(name string, lastErr error) error {
	if lastErr != nil {
		return fmt.Errorf("%w: %s (last error: %w)", ErrNotReady, name, lastErr)
	}

	return fmt.Errorf("%w: %s", ErrNotReady, name)
}
