// File: lixenwraith/config/convenience.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Quick creates a Config with a single call: struct defaults first, then the
// given files in order, then environment variables with envPrefix. An empty
// envPrefix skips the environment. Missing files are skipped so the
// application can run on defaults.
func Quick(structDefaults any, envPrefix string, configFiles ...string) (*Config, error) {
	b := NewBuilder()
	if structDefaults != nil {
		b.WithDefaults(structDefaults)
	}
	for _, file := range configFiles {
		b.WithOptionalFile(file)
	}
	if envPrefix != "" {
		b.WithEnv(envPrefix)
	}
	return b.Build()
}

// MustQuick is like Quick but panics on error
func MustQuick(structDefaults any, envPrefix string, configFiles ...string) *Config {
	cfg, err := Quick(structDefaults, envPrefix, configFiles...)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate checks that every required path is present and holds a value.
// A nil value or an empty string counts as missing.
// It can be passed to Builder.WithValidator through a closure.
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, path := range required {
		n, err := c.Lookup(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		if v := n.value; v == nil || v == "" {
			missing = append(missing, path+" (empty)")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a formatted string showing the applied sources and the current tree
func (c *Config) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString("Sources (lowest to highest precedence):\n")

	for i, rec := range c.history {
		fmt.Fprintf(&b, "  %d. %s", i+1, rec.Source)
		if rec.Name != "" {
			fmt.Fprintf(&b, " %s", rec.Name)
		}
		if rec.Format != "" {
			fmt.Fprintf(&b, " (%s)", rec.Format)
		}
		if rec.Skipped {
			b.WriteString(" [skipped]")
		}
		b.WriteString("\n")
	}

	b.WriteString("Current values:\n")
	var buf bytes.Buffer
	if err := c.Dump(&buf, FormatYAML); err != nil {
		fmt.Fprintf(&b, "  <unavailable: %v>\n", err)
		return b.String()
	}
	for line := range strings.Lines(buf.String()) {
		b.WriteString("  ")
		b.WriteString(line)
	}
	return b.String()
}

// Dump writes the current tree to w in YAML, JSON or TOML.
// YAML and JSON keep key order; the TOML encoder sorts keys and requires a
// mapping root without nil values.
func (c *Config) Dump(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(c.root); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return encoder.Close()

	case FormatJSON:
		data, err := json.MarshalIndent(c.root, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err

	case FormatTOML:
		values := c.Values()
		if values == nil {
			return fmt.Errorf("cannot encode a %s root as TOML", kindOf(c.root))
		}
		if err := toml.NewEncoder(w).Encode(values); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: cannot dump as %q", ErrUnknownFormat, format)
}

// Clone creates a deep copy of the configuration, including its source history
func (c *Config) Clone() *Config {
	return &Config{
		root:    cloneValue(c.root),
		options: c.options,
		logger:  c.logger,
		history: slices.Clone(c.history),
	}
}
