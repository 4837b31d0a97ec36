package di_test

import (
	"errors"
	"testing"

	"github.com/dashdock/dashdock/pkg/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRuntimeResolvesDefaults(t *testing.T) {
	t.Parallel()

	rt := di.NewRuntime()

	tmr, err := di.ResolveTimer(rt.Injector())
	require.NoError(t, err)
	assert.NotNil(t, tmr)

	launcherFactory, err := di.ResolveLauncherFactory(rt.Injector())
	require.NoError(t, err)
	assert.NotNil(t, launcherFactory)

	builderFactory, err := di.ResolveBuilderFactory(rt.Injector())
	require.NoError(t, err)
	assert.NotNil(t, builderFactory)
}

func TestResolveMissingDependency(t *testing.T) {
	t.Parallel()

	rt := di.New()

	_, err := di.ResolveTimer(rt.Injector())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve timer dependency")
}

func TestInvoke(t *testing.T) {
	t.Parallel()

	rt := di.NewRuntime()

	called := false

	err := rt.Invoke(func(di.Injector) error {
		called = true

		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	wantErr := errors.New("boom")

	err = rt.Invoke(func(di.Injector) error {
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
}
