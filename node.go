// FILE: lixenwraith/config/node.go
package config

import (
	"encoding/json"
	"fmt"
	"iter"
)

// Node is a view of one value in the configuration tree.
// It references the tree rather than copying it: changes made in place by
// Config.AddValue are visible through nodes obtained earlier, while whole-tree
// merges replace the containers and are only seen by nodes read afterwards.
type Node struct {
	value any
}

// NewNode wraps an arbitrary Go value, normalizing maps and slices.
func NewNode(v any) (Node, error) {
	nv, err := normalize(v)
	if err != nil {
		return Node{}, err
	}
	return Node{value: nv}, nil
}

// wrap returns a Node for mappings and sequences and the raw value for scalars.
func wrap(v any) any {
	if kindOf(v) == KindScalar {
		return v
	}
	return Node{value: v}
}

// Kind reports whether the node holds a mapping, a sequence or a scalar.
func (n Node) Kind() Kind {
	return kindOf(n.value)
}

// Value returns the scalar held by the node.
// For mappings and sequences it returns a plain deep copy
// (map[string]any / []any).
func (n Node) Value() any {
	return plain(n.value)
}

// Plain returns a deep copy of the value as map[string]any / []any.
// It is the same as Value and reads better for containers.
func (n Node) Plain() any {
	return plain(n.value)
}

// Get returns the child stored under name: a Node for mappings and
// sequences, the raw value for scalars.
func (n Node) Get(name string) (any, error) {
	v, err := n.child(name)
	if err != nil {
		return nil, err
	}
	return wrap(v), nil
}

// Child is like Get but always returns a Node.
func (n Node) Child(name string) (Node, error) {
	v, err := n.child(name)
	if err != nil {
		return Node{}, err
	}
	return Node{value: v}, nil
}

func (n Node) child(name string) (any, error) {
	m, ok := n.value.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: %q (value is a %s, not a mapping)", ErrNotFound, name, n.Kind())
	}
	v, exists := m.Get(name)
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return v, nil
}

// Index returns the sequence element at i: a Node for mappings and
// sequences, the raw value for scalars.
func (n Node) Index(i int) (any, error) {
	v, err := n.element(i)
	if err != nil {
		return nil, err
	}
	return wrap(v), nil
}

// Item is like Index but always returns a Node.
func (n Node) Item(i int) (Node, error) {
	v, err := n.element(i)
	if err != nil {
		return Node{}, err
	}
	return Node{value: v}, nil
}

func (n Node) element(i int) (any, error) {
	seq, ok := n.value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: index %d (value is a %s, not a sequence)", ErrNotFound, i, n.Kind())
	}
	if i < 0 || i >= len(seq) {
		return nil, fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(seq))
	}
	return seq[i], nil
}

// Lookup follows a delimited path ("a:b:0:c" or "a__b__0__c") from this node.
// Numeric segments index sequences; against a mapping they are used as keys.
func (n Node) Lookup(key string) (Node, error) {
	path, err := ParsePath(key)
	if err != nil {
		return Node{}, err
	}
	return n.lookupPath(path)
}

func (n Node) lookupPath(path Path) (Node, error) {
	current := n
	for _, seg := range path {
		var err error
		if seg.IsIndex && current.Kind() == KindSequence {
			current, err = current.Item(seg.Index)
		} else {
			current, err = current.Child(seg.Name)
		}
		if err != nil {
			return Node{}, fmt.Errorf("lookup %q: %w", path.String(), err)
		}
	}
	return current, nil
}

// Has reports whether a mapping node contains name.
func (n Node) Has(name string) bool {
	m, ok := n.value.(*Map)
	return ok && m.Has(name)
}

// Keys returns mapping keys in insertion order, nil for other kinds.
func (n Node) Keys() []string {
	if m, ok := n.value.(*Map); ok {
		return m.Keys()
	}
	return nil
}

// Len returns the number of keys or elements; zero for scalars.
func (n Node) Len() int {
	switch t := n.value.(type) {
	case *Map:
		return t.Len()
	case []any:
		return len(t)
	default:
		return 0
	}
}

// Items iterates over the elements of a sequence node.
// Each call starts over from the first element.
func (n Node) Items() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		seq, ok := n.value.([]any)
		if !ok {
			return
		}
		for _, item := range seq {
			if !yield(Node{value: item}) {
				return
			}
		}
	}
}

// Entries iterates over the key/value pairs of a mapping node in insertion order.
func (n Node) Entries() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		m, ok := n.value.(*Map)
		if !ok {
			return
		}
		for k, v := range m.All() {
			if !yield(k, Node{value: v}) {
				return
			}
		}
	}
}

// Equal compares the node's value with a raw Go value.
// Numbers compare by value across integer and float types; maps and slices
// compare structurally.
func (n Node) Equal(v any) bool {
	other, err := normalize(v)
	if err != nil {
		return false
	}
	return valuesEqual(n.value, other)
}

func (n Node) String() string {
	return fmt.Sprint(n.Value())
}

// MarshalJSON encodes the node's value, keeping mapping key order.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.value)
}

// MarshalYAML encodes the node's value, keeping mapping key order.
func (n Node) MarshalYAML() (any, error) {
	return n.value, nil
}
