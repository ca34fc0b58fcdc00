// FILE: lixenwraith/config/config.go
package config

import (
	"fmt"
	"slices"

	"dario.cat/mergo"
	"github.com/rs/zerolog"
)

// DefaultMaxFileSize caps how many bytes a single configuration file may hold.
const DefaultMaxFileSize int64 = 10 << 20

// Source identifies the kind of input that contributed to the tree
type Source string

const (
	// SourceMap is an in-memory mapping passed to AddMap or AddTree
	SourceMap Source = "map"
	// SourceStruct is a tagged struct passed to AddStruct
	SourceStruct Source = "struct"
	// SourceFile is a configuration file on disk
	SourceFile Source = "file"
	// SourceContent is in-memory YAML, JSON, INI or TOML text
	SourceContent Source = "content"
	// SourceEnv is the process environment
	SourceEnv Source = "env"
	// SourceValue is a single key override passed to AddValue
	SourceValue Source = "value"
)

// SourceRecord describes one add call applied to a Config, in order.
type SourceRecord struct {
	Source  Source
	Name    string // file path, env prefix or key; empty for maps
	Format  Format // set for file and content sources
	Skipped bool   // optional file that did not exist
}

// Options configures a Config instance
type Options struct {
	// Logger receives debug events for every merged source. Default: no-op.
	Logger *zerolog.Logger

	// TagName is the struct tag read by AddStruct and Scan. Default: "yaml".
	TagName string

	// MaxFileSize caps the bytes read from a single file. Default:
	// DefaultMaxFileSize. A negative value disables the check.
	MaxFileSize int64

	// FileFormat forces the format used by AddFile. Default: detect from the
	// extension, then from the content.
	FileFormat Format
}

// DefaultOptions returns the standard options
func DefaultOptions() Options {
	nop := zerolog.Nop()
	return Options{
		Logger:      &nop,
		TagName:     "yaml",
		MaxFileSize: DefaultMaxFileSize,
	}
}

// Config holds a layered configuration tree.
// Sources are merged in the order they are added; later sources win.
// A Config is meant to be built once and then read. It performs no locking,
// so concurrent reads are only safe once all add calls have returned.
type Config struct {
	root    any
	options Options
	logger  zerolog.Logger
	history []SourceRecord
}

// New creates an empty Config with default options.
func New() *Config {
	return NewWithOptions(Options{})
}

// NewWithOptions creates an empty Config. Unset option fields take their
// values from DefaultOptions.
func NewWithOptions(opts Options) *Config {
	if err := mergo.Merge(&opts, DefaultOptions()); err != nil {
		opts = DefaultOptions()
	}
	return &Config{
		root:    NewMap(),
		options: opts,
		logger:  *opts.Logger,
	}
}

// NewFromMap creates a Config holding the given initial mapping.
func NewFromMap(initial map[string]any) (*Config, error) {
	c := New()
	if initial != nil {
		if err := c.AddMap(initial); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Options returns the options in effect.
func (c *Config) Options() Options {
	return c.options
}

// AddMap merges a mapping over the current tree. Nested mappings merge
// recursively; any other value, sequences included, replaces what was there.
func (c *Config) AddMap(m map[string]any) error {
	v, err := normalize(m)
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}
	c.merge(v, SourceRecord{Source: SourceMap})
	return nil
}

// AddTree merges an ordered mapping over the current tree, keeping its key order.
func (c *Config) AddTree(m *Map) error {
	v, err := normalize(m)
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}
	c.merge(v, SourceRecord{Source: SourceMap})
	return nil
}

// AddValue sets a single value at a delimited key such as "a:d:e" or
// "a__d__e". Missing intermediate mappings are created; sequence elements
// must already exist. The tree is modified in place.
func (c *Config) AddValue(key string, value any) error {
	path, err := ParsePath(key)
	if err != nil {
		return err
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("invalid value for key %q: %w", key, err)
	}
	if err := setPath(c.root, path, key, v); err != nil {
		return err
	}

	c.history = append(c.history, SourceRecord{Source: SourceValue, Name: key})
	c.logger.Debug().
		Str("source", string(SourceValue)).
		Str("key", path.String()).
		Msg("configuration value set")
	return nil
}

// merge layers v over the root and records the source.
func (c *Config) merge(v any, rec SourceRecord) {
	c.root = mergeValues(c.root, v)
	c.history = append(c.history, rec)

	event := c.logger.Debug().Str("source", string(rec.Source))
	if rec.Name != "" {
		event = event.Str("name", rec.Name)
	}
	if rec.Format != "" {
		event = event.Str("format", string(rec.Format))
	}
	event.Str("kind", kindOf(v).String()).
		Int("keys", Node{value: v}.Len()).
		Msg("configuration source merged")
}

// record appends a source that did not change the tree.
func (c *Config) record(rec SourceRecord) {
	c.history = append(c.history, rec)
}

// Root returns a node for the whole tree.
func (c *Config) Root() Node {
	return Node{value: c.root}
}

// Get returns the top-level value stored under name: a Node for mappings
// and sequences, the raw value for scalars. The name is used literally, so
// keys containing ':' or '.' are reachable. Missing keys yield ErrNotFound.
func (c *Config) Get(name string) (any, error) {
	return c.Root().Get(name)
}

// Child is like Get but always returns a Node.
func (c *Config) Child(name string) (Node, error) {
	return c.Root().Child(name)
}

// Index reads an element of a sequence-valued root.
func (c *Config) Index(i int) (any, error) {
	return c.Root().Index(i)
}

// Lookup follows a delimited path from the root.
func (c *Config) Lookup(path string) (Node, error) {
	return c.Root().Lookup(path)
}

// Contains reports whether name is a top-level key.
func (c *Config) Contains(name string) bool {
	return c.Root().Has(name)
}

// Keys returns the top-level keys in insertion order.
func (c *Config) Keys() []string {
	return c.Root().Keys()
}

// Values returns a deep copy of the tree as plain maps and slices.
// It returns nil if the root is not a mapping.
func (c *Config) Values() map[string]any {
	if m, ok := c.root.(*Map); ok {
		return m.Plain()
	}
	return nil
}

// Sources returns the applied sources in the order they were added.
func (c *Config) Sources() []SourceRecord {
	return slices.Clone(c.history)
}
