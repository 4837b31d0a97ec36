// Package di wires shared dependencies into a runtime container.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the dependency injector commands resolve services from.
type Injector = do.Injector

// Runtime holds the shared dependency container used by the root command and tests.
type Runtime struct {
	injector do.Injector
}

// New constructs a Runtime and applies the provided registrars.
// Registrar errors surface on first Invoke rather than at construction.
func New(registrars ...func(Injector) error) *Runtime {
	injector := do.New()
	runtime := &Runtime{injector: injector}

	for _, register := range registrars {
		err := register(injector)
		if err != nil {
			// Resolution of the failed service will report the error in context.
			continue
		}
	}

	return runtime
}

// Invoke runs fn with the runtime's injector.
func (r *Runtime) Invoke(fn func(Injector) error) error {
	return fn(r.injector)
}

// Injector returns the underlying injector.
func (r *Runtime) Injector() Injector {
	return r.injector
}
