// FILE: lixenwraith/config/register_test.go
package config

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerDB struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type registerDefaults struct {
	Name     string        `yaml:"name"`
	Timeout  time.Duration `yaml:"timeout"`
	Bind     net.IP        `yaml:"bind"`
	Started  time.Time     `yaml:"started"`
	Database registerDB    `yaml:"database"`
	Replica  *registerDB   `yaml:"replica"`
	Cache    *registerDB   `yaml:"cache"`
	Tags     []string      `yaml:"tags,omitempty"`
	Secret   string        `yaml:"-"`
	Untagged string
	internal string
}

func TestAddStruct(t *testing.T) {
	started := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	defaults := registerDefaults{
		Name:     "svc",
		Timeout:  5 * time.Second,
		Bind:     net.ParseIP("10.0.0.1"),
		Started:  started,
		Database: registerDB{Host: "db", Port: 5432},
		Cache:    &registerDB{Host: "cache", Port: 6379},
		Tags:     []string{"a", "b"},
		Secret:   "hidden",
		Untagged: "u",
		internal: "i",
	}

	t.Run("KeysAndOrder", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.AddStruct(&defaults))

		assert.Equal(t, []string{"name", "timeout", "bind", "started", "database", "cache", "tags", "Untagged"}, cfg.Keys())
		assert.False(t, cfg.Contains("replica"), "nil struct pointer should be skipped")
		assert.False(t, cfg.Contains("Secret"))
		assert.False(t, cfg.Contains("internal"))
	})

	t.Run("Values", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.AddStruct(defaults))

		port, err := cfg.Int64("database:port")
		require.NoError(t, err)
		assert.Equal(t, int64(5432), port)

		host, _ := cfg.String("cache:host")
		assert.Equal(t, "cache", host)

		timeout, _ := cfg.Get("timeout")
		assert.Equal(t, 5*time.Second, timeout)

		bind, _ := cfg.Get("bind")
		assert.Equal(t, net.ParseIP("10.0.0.1"), bind)

		start, _ := cfg.Get("started")
		assert.Equal(t, started, start)

		tags, _ := cfg.Lookup("tags")
		assert.Equal(t, KindSequence, tags.Kind())
		assert.Equal(t, []any{"a", "b"}, tags.Plain())
	})

	t.Run("RecordedAsSource", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.AddStruct(&defaults))
		sources := cfg.Sources()
		require.Len(t, sources, 1)
		assert.Equal(t, SourceStruct, sources[0].Source)
		assert.Equal(t, "config.registerDefaults", sources[0].Name)
	})

	t.Run("LaterSourcesOverride", func(t *testing.T) {
		cfg := New()
		require.NoError(t, cfg.AddStruct(&defaults))
		require.NoError(t, cfg.AddYAML("database:\n  host: prod-db\n"))

		host, _ := cfg.String("database:host")
		assert.Equal(t, "prod-db", host)
		port, _ := cfg.Int64("database:port")
		assert.Equal(t, int64(5432), port)
	})

	t.Run("CustomTagName", func(t *testing.T) {
		type tagged struct {
			Level string `json:"log_level"`
			Other string `yaml:"ignored"`
		}
		cfg := NewWithOptions(Options{TagName: "json"})
		require.NoError(t, cfg.AddStruct(tagged{Level: "info", Other: "x"}))
		assert.Equal(t, []string{"log_level", "Other"}, cfg.Keys())
	})

	t.Run("InvalidInput", func(t *testing.T) {
		cfg := New()
		assert.Error(t, cfg.AddStruct(nil))
		assert.Error(t, cfg.AddStruct((*registerDefaults)(nil)))
		assert.Error(t, cfg.AddStruct(42))
		assert.Error(t, cfg.AddStruct(map[string]any{"a": 1}))
		assert.Empty(t, cfg.Sources())
	})

	t.Run("UnsupportedField", func(t *testing.T) {
		type withFunc struct {
			Name string `yaml:"name"`
			Hook func() `yaml:"hook"`
		}
		cfg := New()
		err := cfg.AddStruct(withFunc{Name: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Hook")
		assert.Empty(t, cfg.Keys(), "nothing is merged when a field fails")
	})
}
