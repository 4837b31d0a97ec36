package errorhandler_test

import (
	"errors"
	"io"
	"testing"

	"github.com/dashdock/dashdock/pkg/cli/ui/errorhandler"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_NilCommand(t *testing.T) {
	t.Parallel()

	err := errorhandler.NewExecutor().Execute(nil)

	require.NoError(t, err)
}

func TestExecute_Success(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{
		Use:  "ok",
		RunE: func(*cobra.Command, []string) error { return nil },
	}
	cmd.SetOut(io.Discard)

	err := errorhandler.NewExecutor().Execute(cmd)

	require.NoError(t, err)
}

func TestExecute_PreservesErrorChain(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel failure")
	cmd := &cobra.Command{
		Use:           "fail",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          func(*cobra.Command, []string) error { return sentinel },
	}
	cmd.SetOut(io.Discard)

	err := errorhandler.NewExecutor().Execute(cmd)

	require.ErrorIs(t, err, sentinel)

	var cmdErr *errorhandler.CommandError

	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Error(), "sentinel failure")
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "empty", raw: "", expected: ""},
		{name: "whitespace only", raw: "  \n ", expected: ""},
		{name: "strips error prefix", raw: "Error: something broke\n", expected: "something broke"},
		{
			name:     "keeps usage hint lines",
			raw:      "Error: bad flag\nUsage:\n  dashdock up [flags]",
			expected: "bad flag\nUsage:\n  dashdock up [flags]",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := errorhandler.DefaultNormalizer{}.Normalize(testCase.raw)

			assert.Equal(t, testCase.expected, got)
		})
	}
}
