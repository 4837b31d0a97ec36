package di

import (
	"github.com/dashdock/dashdock/pkg/svc/builder"
	"github.com/dashdock/dashdock/pkg/svc/launcher"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/samber/do/v2"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by root command and tests.
// It registers default implementations for timer, launcher factory, and builder factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideLauncherFactory,
		provideBuilderFactory,
	)
}

// provideTimer registers the timer dependency with the injector.
func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

// provideLauncherFactory registers the container launcher factory dependency.
func provideLauncherFactory(i Injector) error {
	do.Provide(i, func(Injector) (launcher.Factory, error) {
		return launcher.DefaultFactory{}, nil
	})

	return nil
}

// provideBuilderFactory registers the image builder factory dependency.
func provideBuilderFactory(i Injector) error {
	do.Provide(i, func(Injector) (builder.Factory, error) {
		return builder.DefaultFactory{}, nil
	})

	return nil
}
