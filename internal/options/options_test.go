package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	indent  string
	maxRows int
	calls   []string
}

func withIndent(indent string) Option[*testConfig] {
	return NoError(func(c *testConfig) {
		c.indent = indent
		c.calls = append(c.calls, "indent")
	})
}

func withMaxRows(n int) Option[*testConfig] {
	return New(func(c *testConfig) error {
		if n < 0 {
			return errors.New("max rows cannot be negative")
		}
		c.maxRows = n
		c.calls = append(c.calls, "maxRows")

		return nil
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withMaxRows(10), withIndent("  "))
		require.NoError(t, err)
		require.Equal(t, 10, cfg.maxRows)
		require.Equal(t, "  ", cfg.indent)
		require.Equal(t, []string{"maxRows", "indent"}, cfg.calls)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, withIndent("\t"), withMaxRows(-1), withIndent("  "))
		require.Error(t, err)
		require.Contains(t, err.Error(), "negative")
		require.Equal(t, "\t", cfg.indent)
		require.Equal(t, []string{"indent"}, cfg.calls)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg, nil, withIndent("x"))
		require.NoError(t, err)
		require.Equal(t, "x", cfg.indent)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &testConfig{}
		require.NoError(t, Apply(cfg))
		require.Empty(t, cfg.calls)
	})
}

func TestOption_PrimitiveTarget(t *testing.T) {
	var n int
	err := Apply(&n, NoError(func(p *int) { *p = 42 }))
	require.NoError(t, err)
	require.Equal(t, 42, n)
}
