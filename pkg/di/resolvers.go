package di

import (
	"fmt"

	"github.com/dashdock/dashdock/pkg/svc/builder"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/samber/do/v2"
)

// Dependency resolvers.

// ResolveTimer retrieves the timer dependency from the injector with consistent error handling.
func ResolveTimer(injector Injector) (timer.Timer, error) {
	tmr, err := do.Invoke[timer.Timer](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve timer dependency: %w", err)
	}

	return tmr, nil
}

// ResolveLauncherFactory retrieves the container launcher factory dependency
// from the injector with consistent error handling.
func ResolveLauncherFactory(injector Injector) (launcher.Factory, error) {
	factory, err := do.Invoke[launcher.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve launcher factory dependency: %w", err)
	}

	return factory, nil
}

// ResolveBuilderFactory retrieves the image builder factory dependency from
// the injector with consistent error handling.
func ResolveBuilderFactory(injector Injector) (builder.Factory, error) {
	factory, err := do.Invoke[builder.Factory](injector)
	if err != nil {
		return nil, fmt.Errorf("resolve builder factory dependency: %w", err)
	}

	return factory, nil
}
