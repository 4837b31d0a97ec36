package launcher

import "fmt"

// ExitCodeError carries a container's non-zero exit code up to main so the
// CLI can exit with the same code. Exit codes are not interpreted at this
// layer; they are inherited from whatever the dashboard process returned.
type ExitCodeError struct {
	// Code is the container's exit code.
	Code int
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("dashboard exited with code %d", e.Code)
}
