// File: lixenwraith/config/helper.go
package config

import (
	"fmt"
	"strconv"
)

// Flatten returns every leaf of the tree keyed by its ':' delimited path.
// Sequence elements use their index as a segment. Empty mappings and
// sequences do not appear. Keys that contain no delimiter round-trip through
// Lookup and AddValue.
func (c *Config) Flatten() map[string]any {
	flat := make(map[string]any)
	flattenValue(c.root, "", PathDelimiter, flat)
	return flat
}

// ExportEnv renders the tree as environment variables: paths joined with
// '__' and prefixed. Values are formatted with fmt. Feeding the result back
// to AddEnviron with the same prefix reproduces the leaves as strings.
func (c *Config) ExportEnv(prefix string) map[string]string {
	flat := make(map[string]any)
	flattenValue(c.root, "", AltPathDelimiter, flat)

	exports := make(map[string]string, len(flat))
	for path, value := range flat {
		if value == nil {
			exports[prefix+path] = ""
			continue
		}
		exports[prefix+path] = fmt.Sprintf("%v", value)
	}
	return exports
}

// flattenValue converts a nested value into flat paths joined with delim.
func flattenValue(v any, prefix, delim string, flat map[string]any) {
	join := func(segment string) string {
		if prefix == "" {
			return segment
		}
		return prefix + delim + segment
	}

	switch t := v.(type) {
	case *Map:
		for k, child := range t.All() {
			flattenValue(child, join(k), delim, flat)
		}
	case []any:
		for i, child := range t {
			flattenValue(child, join(strconv.Itoa(i)), delim, flat)
		}
	default:
		if prefix != "" {
			flat[prefix] = v
		}
	}
}
