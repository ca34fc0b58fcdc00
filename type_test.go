// FILE: lixenwraith/config/type_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypedAccessors tests conversions performed by the typed getters
func TestTypedAccessors(t *testing.T) {
	cfg, err := NewFromMap(map[string]any{
		"str":      "hello",
		"intStr":   "42",
		"hexStr":   "0xFF",
		"floatStr": "2.5",
		"boolStr":  "true",
		"int":      int64(7),
		"uint":     uint64(9),
		"float":    3.9,
		"bool":     true,
		"nil":      nil,
		"section":  map[string]any{"key": "v"},
	})
	require.NoError(t, err)

	t.Run("String", func(t *testing.T) {
		s, err := cfg.String("str")
		require.NoError(t, err)
		assert.Equal(t, "hello", s)

		s, err = cfg.String("int")
		require.NoError(t, err)
		assert.Equal(t, "7", s)

		s, err = cfg.String("float")
		require.NoError(t, err)
		assert.Equal(t, "3.9", s)

		s, err = cfg.String("nil")
		require.NoError(t, err)
		assert.Equal(t, "", s)

		_, err = cfg.String("section")
		assert.Error(t, err)
	})

	t.Run("Int64", func(t *testing.T) {
		tests := map[string]int64{
			"intStr":   42,
			"hexStr":   255,
			"floatStr": 2,
			"int":      7,
			"uint":     9,
			"float":    3,
			"bool":     1,
		}
		for path, want := range tests {
			got, err := cfg.Int64(path)
			require.NoError(t, err, path)
			assert.Equal(t, want, got, path)
		}

		_, err := cfg.Int64("str")
		assert.Error(t, err)
		_, err = cfg.Int64("nil")
		assert.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		b, err := cfg.Bool("boolStr")
		require.NoError(t, err)
		assert.True(t, b)

		b, err = cfg.Bool("int")
		require.NoError(t, err)
		assert.True(t, b)

		_, err = cfg.Bool("str")
		assert.Error(t, err)
	})

	t.Run("Float64", func(t *testing.T) {
		f, err := cfg.Float64("floatStr")
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)

		f, err = cfg.Float64("int")
		require.NoError(t, err)
		assert.Equal(t, 7.0, f)
	})

	t.Run("NestedPath", func(t *testing.T) {
		s, err := cfg.String("section:key")
		require.NoError(t, err)
		assert.Equal(t, "v", s)
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := cfg.String("section:missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
