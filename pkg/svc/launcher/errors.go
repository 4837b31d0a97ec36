package launcher

import "errors"

// Error definitions for dashboard container operations.
var (
	// ErrEngineAPINil is returned when the engine API client is nil.
	ErrEngineAPINil = errors.New("engine API client cannot be nil")
	// ErrNotFound is returned when the dashboard container does not exist.
	ErrNotFound = errors.New("dashboard container not found")
	// ErrAlreadyExists is returned when a dashboard container with the same name already exists.
	ErrAlreadyExists = errors.New("dashboard container already exists")
	// ErrPortNotFound is returned when the host port binding cannot be determined.
	ErrPortNotFound = errors.New("dashboard host port not found")
	// ErrNotReady is returned when the dashboard fails to become ready within the timeout.
	ErrNotReady = errors.New("dashboard not ready within timeout")
	// ErrUnexpectedStatus is returned when the readiness endpoint returns an unexpected HTTP status.
	ErrUnexpectedStatus = errors.New("dashboard returned unexpected status")
	// ErrHealthCheckCancelled is returned when the readiness probe is cancelled via context.
	ErrHealthCheckCancelled = errors.New("dashboard health check cancelled")
)
