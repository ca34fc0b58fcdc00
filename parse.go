// FILE: lixenwraith/config/parse.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// parseYAML decodes through yaml.Node so that mapping key order survives.
// Aliases are resolved and '<<' merge keys are applied.
func parseYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	var w yamlWalker
	return w.value(&doc)
}

// yamlWalker counts the nodes it builds. Expanding aliases by hand skips the
// aliasing limit yaml.v3 applies when decoding into Go values, so the same
// ratio check is applied here.
type yamlWalker struct {
	nodes      int // nodes built, aliased ones included
	aliased    int // nodes built while inside an alias
	aliasDepth int
}

// errExcessiveAliasing is returned for documents that expand far beyond their size.
var errExcessiveAliasing = errors.New("document contains excessive aliasing")

func (w *yamlWalker) count() error {
	w.nodes++
	if w.aliasDepth > 0 {
		w.aliased++
	}
	if w.aliased > 100 && w.nodes > 1000 &&
		float64(w.aliased)/float64(w.nodes) > allowedAliasRatio(w.nodes) {
		return errExcessiveAliasing
	}
	return nil
}

// allowedAliasRatio mirrors yaml.v3: nearly anything is allowed for small
// documents, at most 10% aliased nodes past four million.
func allowedAliasRatio(nodes int) float64 {
	switch {
	case nodes <= 400_000:
		return 0.99
	case nodes >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(nodes-400_000)/3_600_000)
	}
}

func (w *yamlWalker) alias(n *yaml.Node) (any, error) {
	w.aliasDepth++
	defer func() { w.aliasDepth-- }()
	return w.value(n.Alias)
}

func (w *yamlWalker) value(n *yaml.Node) (any, error) {
	if err := w.count(); err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.value(n.Content[0])
	case yaml.AliasNode:
		return w.alias(n)
	case yaml.MappingNode:
		return w.mapping(n)
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := w.value(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		// Timestamps decode to time.Time; quoting keeps them strings
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func (w *yamlWalker) mapping(n *yaml.Node) (*Map, error) {
	m := NewMap()
	var inherited []*Map

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
		}

		if keyNode.ShortTag() == "!!merge" {
			sources, err := w.mergeSources(valueNode)
			if err != nil {
				return nil, err
			}
			inherited = append(inherited, sources...)
			continue
		}

		v, err := w.value(valueNode)
		if err != nil {
			return nil, err
		}
		m.put(keyNode.Value, v)
	}

	// Explicit keys win over merged ones, earlier merge sources over later ones
	for _, src := range inherited {
		for k, v := range src.All() {
			if !m.Has(k) {
				m.put(k, v)
			}
		}
	}
	return m, nil
}

// mergeSources resolves the value of a '<<' key to the mappings it names.
func (w *yamlWalker) mergeSources(n *yaml.Node) ([]*Map, error) {
	if n.Kind == yaml.AliasNode {
		w.aliasDepth++
		defer func() { w.aliasDepth-- }()
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		if err := w.count(); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		m, err := w.mapping(n)
		if err != nil {
			return nil, err
		}
		return []*Map{m}, nil
	case yaml.SequenceNode:
		var out []*Map
		for _, item := range n.Content {
			sources, err := w.mergeSources(item)
			if err != nil {
				return nil, err
			}
			out = append(out, sources...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("line %d: merge key value must be a mapping or a sequence of mappings", n.Line)
}

// parseJSON walks the token stream so that object key order survives.
// Integral numbers become int64, other numbers float64.
func parseJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty JSON document")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // Preserve number precision

	v, err := jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return v, nil
}

func jsonValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				m.put(key, v)
			}
			if err := jsonClose(dec, '}'); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			out := make([]any, 0)
			for dec.More() {
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			if err := jsonClose(dec, ']'); err != nil {
				return nil, err
			}
			return out, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(t))
	case json.Number:
		return numberValue(t), nil
	default:
		// string, bool or nil
		return t, nil
	}
}

func jsonClose(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}
	return nil
}

// parseTOML decodes with BurntSushi/toml and restores key order from the
// decoder metadata. Keys the metadata does not list sort after known ones.
func parseTOML(data []byte) (any, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	order := make(map[string]int)
	for i, key := range md.Keys() {
		s := key.String()
		if _, seen := order[s]; !seen {
			order[s] = i
		}
	}

	if raw == nil {
		return NewMap(), nil
	}
	return tomlValue(raw, nil, order), nil
}

func tomlValue(v any, path toml.Key, order map[string]int) any {
	switch t := v.(type) {
	case map[string]any:
		position := func(k string) int {
			if p, ok := order[childKey(path, k).String()]; ok {
				return p
			}
			return math.MaxInt
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(a, b string) int {
			if pa, pb := position(a), position(b); pa != pb {
				if pa < pb {
					return -1
				}
				return 1
			}
			return strings.Compare(a, b)
		})

		m := NewMap()
		for _, k := range keys {
			m.put(k, tomlValue(t[k], childKey(path, k), order))
		}
		return m
	case []map[string]any:
		// Array of tables: element keys are listed without an index
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = tomlValue(item, path, order)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = tomlValue(item, path, order)
		}
		return out
	default:
		return v
	}
}

func childKey(path toml.Key, k string) toml.Key {
	out := make(toml.Key, len(path), len(path)+1)
	copy(out, path)
	return append(out, k)
}

// parseINI maps sections to top-level keys with string leaves. Keys of the
// DEFAULT section are copied into every other section and the DEFAULT
// section itself is not emitted.
func parseINI(data []byte) (any, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
		IgnoreInlineComment:        true,
	}, data)
	if err != nil {
		return nil, err
	}

	defaults := f.Section(ini.DefaultSection)
	m := NewMap()
	for _, sec := range f.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		section := NewMap()
		for _, key := range defaults.Keys() {
			section.put(key.Name(), key.String())
		}
		for _, key := range sec.Keys() {
			section.put(key.Name(), key.String())
		}
		m.put(sec.Name(), section)
	}
	return m, nil
}
