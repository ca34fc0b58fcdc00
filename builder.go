// File: lixenwraith/config/builder.go
package config

import (
	"fmt"
	"os"
	"reflect"

	"github.com/rs/zerolog"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully loaded *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// buildStep is one source applied by Build, in the order it was added
type buildStep func(c *Config) error

// Builder provides a fluent interface for building configurations.
// Sources are layered in the order the With* calls are made; later sources win.
type Builder struct {
	opts       Options
	steps      []buildStep
	prefix     string
	args       []string
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

// WithOptions sets the options of the built Config. Unset fields keep their defaults.
func (b *Builder) WithOptions(opts Options) *Builder {
	b.opts = opts
	return b
}

// WithLogger sets the logger of the built Config
func (b *Builder) WithLogger(logger *zerolog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithTagName sets the struct tag used by WithDefaults and BuildAndScan
func (b *Builder) WithTagName(tagName string) *Builder {
	b.opts.TagName = tagName
	return b
}

// WithDefaults layers a struct containing default values
func (b *Builder) WithDefaults(defaults any) *Builder {
	return b.step(func(c *Config) error {
		if err := c.AddStruct(defaults); err != nil {
			return fmt.Errorf("failed to add defaults: %w", err)
		}
		return nil
	})
}

// WithMap layers an in-memory mapping
func (b *Builder) WithMap(m map[string]any) *Builder {
	return b.step(func(c *Config) error { return c.AddMap(m) })
}

// WithFile layers a required file whose format is detected
func (b *Builder) WithFile(path string) *Builder {
	return b.step(func(c *Config) error { return c.AddFile(path, false) })
}

// WithOptionalFile layers a file whose format is detected; a missing file is skipped
func (b *Builder) WithOptionalFile(path string) *Builder {
	return b.step(func(c *Config) error { return c.AddFile(path, true) })
}

// WithYAMLFile layers a YAML file
func (b *Builder) WithYAMLFile(path string, optional bool) *Builder {
	return b.step(func(c *Config) error { return c.AddYAMLFile(path, optional) })
}

// WithJSONFile layers a JSON file
func (b *Builder) WithJSONFile(path string, optional bool) *Builder {
	return b.step(func(c *Config) error { return c.AddJSONFile(path, optional) })
}

// WithINIFile layers an INI file
func (b *Builder) WithINIFile(path string, optional bool) *Builder {
	return b.step(func(c *Config) error { return c.AddINIFile(path, optional) })
}

// WithTOMLFile layers a TOML file
func (b *Builder) WithTOMLFile(path string, optional bool) *Builder {
	return b.step(func(c *Config) error { return c.AddTOMLFile(path, optional) })
}

// WithEnv layers environment variables filtered by prefix
func (b *Builder) WithEnv(prefix string) *Builder {
	return b.step(func(c *Config) error { return c.AddEnvironmentVariables(prefix) })
}

// WithValue layers a single key override
func (b *Builder) WithValue(key string, value any) *Builder {
	return b.step(func(c *Config) error { return c.AddValue(key, value) })
}

// WithPrefix sets the base path BuildAndScan decodes from
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithArgs sets the command-line arguments searched by WithFileDiscovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// WithTypedValidator adds a validator that receives the configuration
// decoded under the builder's prefix. fn must have the form func(*T) error
// where T is the struct type to decode into.
func (b *Builder) WithTypedValidator(fn any) *Builder {
	if fn == nil {
		return b
	}
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func || fnType.NumIn() != 1 || fnType.NumOut() != 1 ||
		fnType.In(0).Kind() != reflect.Ptr || fnType.Out(0) != errorType {
		return b.WithValidator(func(*Config) error {
			return fmt.Errorf("typed validator signature must be func(*T) error, got %T", fn)
		})
	}

	return b.WithValidator(func(c *Config) error {
		target := reflect.New(fnType.In(0).Elem())
		if err := c.Scan(b.prefix, target.Interface()); err != nil {
			return fmt.Errorf("failed to decode for typed validator: %w", err)
		}
		out := fnVal.Call([]reflect.Value{target})
		if err, _ := out[0].Interface().(error); err != nil {
			return fmt.Errorf("typed configuration validation failed: %w", err)
		}
		return nil
	})
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (b *Builder) step(fn buildStep) *Builder {
	b.steps = append(b.steps, fn)
	return b
}

// Build creates the Config instance, applying every source in order
func (b *Builder) Build() (*Config, error) {
	cfg := NewWithOptions(b.opts)

	for _, step := range b.steps {
		if err := step(cfg); err != nil {
			return nil, err
		}
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the configuration under the builder's
// prefix into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) error {
	cfg, err := b.Build()
	if err != nil {
		return err
	}

	if err := cfg.Scan(b.prefix, target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return nil
}
