// FILE: lixenwraith/config/merge_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNormalize(t *testing.T, v any) any {
	t.Helper()
	nv, err := normalize(v)
	require.NoError(t, err)
	return nv
}

// TestMergeValues tests whole-tree deep merge
func TestMergeValues(t *testing.T) {
	t.Run("NestedMappingsMerge", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"a": map[string]any{"x": 1, "y": 2}})
		over := mustNormalize(t, map[string]any{"a": map[string]any{"y": 3, "z": 4}})

		got := mergeValues(base, over)
		assert.Equal(t, map[string]any{"a": map[string]any{"x": 1, "y": 3, "z": 4}}, plain(got))
	})

	t.Run("SequenceReplacedWholesale", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"list": []any{1, 2, 3}})
		over := mustNormalize(t, map[string]any{"list": []any{9}})

		got := mergeValues(base, over)
		assert.Equal(t, map[string]any{"list": []any{9}}, plain(got))
	})

	t.Run("ScalarReplacesMapping", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"a": map[string]any{"x": 1}})
		over := mustNormalize(t, map[string]any{"a": "flat"})

		got := mergeValues(base, over)
		assert.Equal(t, map[string]any{"a": "flat"}, plain(got))
	})

	t.Run("MappingReplacesScalar", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"a": "flat"})
		over := mustNormalize(t, map[string]any{"a": map[string]any{"x": 1}})

		got := mergeValues(base, over)
		assert.Equal(t, map[string]any{"a": map[string]any{"x": 1}}, plain(got))
	})

	t.Run("NonMappingOverrideReplacesRoot", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"a": 1})
		got := mergeValues(base, []any{"x"})
		assert.Equal(t, []any{"x"}, got)
	})

	t.Run("BaseNotModified", func(t *testing.T) {
		base := mustNormalize(t, map[string]any{"a": map[string]any{"x": 1}})
		over := mustNormalize(t, map[string]any{"a": map[string]any{"x": 2}, "b": true})

		mergeValues(base, over)
		assert.Equal(t, map[string]any{"a": map[string]any{"x": 1}}, plain(base))
	})

	t.Run("KeyOrder", func(t *testing.T) {
		base := NewMap()
		base.put("z", 1)
		base.put("a", 2)
		over := NewMap()
		over.put("m", 3)
		over.put("a", 4)

		got := mergeValues(base, over).(*Map)
		assert.Equal(t, []string{"z", "a", "m"}, got.Keys())
	})

	t.Run("Idempotent", func(t *testing.T) {
		m := mustNormalize(t, map[string]any{"a": map[string]any{"b": []any{1, 2}}, "c": "d"})
		got := mergeValues(m, cloneValue(m))
		assert.True(t, valuesEqual(m, got))
	})
}

// TestSetPath tests path-targeted overrides
func TestSetPath(t *testing.T) {
	newRoot := func(t *testing.T) any {
		return mustNormalize(t, map[string]any{
			"a": map[string]any{
				"b": []any{
					map[string]any{"c": 1},
					"scalar",
				},
				"leaf": "v",
				"7":    "seven",
			},
		})
	}
	set := func(root any, key string, value any) error {
		path, err := ParsePath(key)
		if err != nil {
			return err
		}
		return setPath(root, path, key, value)
	}

	t.Run("CreatesIntermediateMappings", func(t *testing.T) {
		root := newRoot(t)
		require.NoError(t, set(root, "a:d:e", 5))
		v, err := Node{value: root}.Lookup("a:d:e")
		require.NoError(t, err)
		assert.Equal(t, 5, v.Value())
	})

	t.Run("ReplacesSequenceElementInPlace", func(t *testing.T) {
		root := newRoot(t)
		require.NoError(t, set(root, "a:b:0:c", 2))
		require.NoError(t, set(root, "a:b:1", "replaced"))

		n := Node{value: root}
		c, err := n.Lookup("a:b:0:c")
		require.NoError(t, err)
		assert.Equal(t, 2, c.Value())
		s, err := n.Lookup("a:b:1")
		require.NoError(t, err)
		assert.Equal(t, "replaced", s.Value())
	})

	t.Run("IndexOutOfRangeNeverGrows", func(t *testing.T) {
		root := newRoot(t)
		err := set(root, "a:b:2", "x")
		assert.ErrorIs(t, err, ErrPath)

		seq, err := Node{value: root}.Lookup("a:b")
		require.NoError(t, err)
		assert.Equal(t, 2, seq.Len())
	})

	t.Run("NameAgainstSequence", func(t *testing.T) {
		err := set(newRoot(t), "a:b:name", "x")
		assert.ErrorIs(t, err, ErrPath)
	})

	t.Run("IndexAgainstMappingWithLiteralKey", func(t *testing.T) {
		root := newRoot(t)
		err := set(root, "a:7", "SEVEN")

		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, "7", pathErr.Segment)

		// The literal key is untouched and still readable
		v, err := Node{value: root}.Lookup("a:7")
		require.NoError(t, err)
		assert.Equal(t, "seven", v.Value())
	})

	t.Run("IndexAgainstMappingWithoutKey", func(t *testing.T) {
		err := set(newRoot(t), "a:3", "x")
		assert.ErrorIs(t, err, ErrPath)
	})

	t.Run("IndexUnderNewMapping", func(t *testing.T) {
		root := newRoot(t)
		err := set(root, "fresh:0", "x")
		assert.ErrorIs(t, err, ErrPath)
		// Nothing was created by the failed call
		assert.False(t, Node{value: root}.Has("fresh"))
	})

	t.Run("ShadowingScalar", func(t *testing.T) {
		root := newRoot(t)
		err := set(root, "a:leaf:deeper", "x")

		var pathErr *PathError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, "leaf", pathErr.Segment)
		v, _ := Node{value: root}.Lookup("a:leaf")
		assert.Equal(t, "v", v.Value())
	})

	t.Run("ScalarRoot", func(t *testing.T) {
		err := set("just a string", "a", 1)
		assert.ErrorIs(t, err, ErrPath)
	})

	t.Run("EmptyPath", func(t *testing.T) {
		err := setPath(newRoot(t), nil, "", 1)
		assert.ErrorIs(t, err, ErrEmptyPath)
	})
}
