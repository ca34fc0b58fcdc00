// FILE: lixenwraith/config/value.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind classifies a configuration value.
type Kind int

const (
	// KindScalar is any leaf value: string, number, bool, nil or an opaque value
	KindScalar Kind = iota
	// KindMap is a *Map
	KindMap
	// KindSequence is a []any
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// kindOf reports the kind of a normalized value.
func kindOf(v any) Kind {
	switch v.(type) {
	case *Map:
		return KindMap
	case []any:
		return KindSequence
	default:
		return KindScalar
	}
}

// Map is a string-keyed mapping that remembers insertion order.
// Replacing the value of an existing key keeps the key's position.
// The zero value is an empty Map ready to use.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Len returns the number of keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set normalizes value and stores it under key.
func (m *Map) Set(key string, value any) error {
	v, err := normalize(value)
	if err != nil {
		return err
	}
	m.put(key, v)
	return nil
}

// put stores an already normalized value.
func (m *Map) put(key string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates over key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Plain returns a deep copy using map[string]any and []any.
func (m *Map) Plain() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = plain(m.values[k])
	}
	return out
}

func (m *Map) String() string {
	return fmt.Sprint(m.Plain())
}

// MarshalJSON encodes the map with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the map as a YAML mapping with keys in insertion order.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range m.keys {
		var valueNode yaml.Node
		if err := valueNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("failed to marshal key %q: %w", k, err)
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		node.Content = append(node.Content, keyNode, &valueNode)
	}
	return node, nil
}

// normalize converts arbitrary Go values into the canonical tree form:
// *Map for mappings, []any for sequences, anything else is a leaf.
// The result never aliases containers of the input.
func normalize(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool, []byte, time.Time, time.Duration,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return t, nil
	case json.Number:
		return numberValue(t), nil
	case *Map:
		if t == nil {
			return NewMap(), nil
		}
		return cloneValue(t), nil
	case Node:
		return cloneValue(t.value), nil
	case map[string]any:
		m := NewMap()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			nv, err := normalize(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.put(k, nv)
		}
		return m, nil
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			nv, err := normalize(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		m := NewMap()
		rendered := make(map[string]reflect.Value, rv.Len())
		keys := make([]string, 0, rv.Len())
		it := rv.MapRange()
		for it.Next() {
			k := fmt.Sprint(it.Key().Interface())
			if _, dup := rendered[k]; !dup {
				keys = append(keys, k)
			}
			rendered[k] = it.Value()
		}
		sort.Strings(keys)
		for _, k := range keys {
			nv, err := normalize(rendered[k].Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			m.put(k, nv)
		}
		return m, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			nv, err := normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, fmt.Errorf("unsupported configuration value of type %T", v)
	}

	// Structs, pointers and named scalar types are opaque leaves
	return v, nil
}

// numberValue converts a JSON number to int64 when integral, float64 otherwise.
func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// cloneValue deep-copies mappings and sequences; leaves are shared.
func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		m := &Map{keys: slices.Clone(t.keys), values: make(map[string]any, len(t.values))}
		for k, val := range t.values {
			m.values[k] = cloneValue(val)
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// plain converts a normalized value into map[string]any / []any form.
func plain(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Plain()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// valuesEqual compares two normalized values structurally.
// Numbers compare by value regardless of their Go type.
func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for k, xv := range x.All() {
			yv, ok := y.Get(k)
			if !ok || !valuesEqual(xv, yv) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valuesEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	if eq, ok := numbersEqual(a, b); ok {
		return eq
	}
	return reflect.DeepEqual(a, b)
}

// numbersEqual compares two numeric values; ok is false if either is not a number.
func numbersEqual(a, b any) (equal bool, ok bool) {
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if !isNumberKind(av) || !isNumberKind(bv) {
		return false, false
	}

	switch {
	case isFloatKind(av) || isFloatKind(bv):
		return toFloat(av) == toFloat(bv), true
	case isUintKind(av) && isUintKind(bv):
		return av.Uint() == bv.Uint(), true
	case isUintKind(av):
		return bv.Int() >= 0 && av.Uint() == uint64(bv.Int()), true
	case isUintKind(bv):
		return av.Int() >= 0 && bv.Uint() == uint64(av.Int()), true
	default:
		return av.Int() == bv.Int(), true
	}
}

func isNumberKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFloatKind(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func isUintKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isFloatKind(v):
		return v.Float()
	case isUintKind(v):
		return float64(v.Uint())
	default:
		return float64(v.Int())
	}
}
