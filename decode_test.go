// FILE: lixenwraith/config/decode_test.go
package config

import (
	"net"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanWithComplexTypes tests scanning with various complex types
func TestScanWithComplexTypes(t *testing.T) {
	type NetworkConfig struct {
		IP      net.IP        `yaml:"ip"`
		IPNet   *net.IPNet    `yaml:"subnet"`
		URL     *url.URL      `yaml:"endpoint"`
		Timeout time.Duration `yaml:"timeout"`
		Retry   struct {
			Count    int           `yaml:"count"`
			Interval time.Duration `yaml:"interval"`
		} `yaml:"retry"`
	}

	type AppConfig struct {
		Network NetworkConfig     `yaml:"network"`
		Tags    []string          `yaml:"tags"`
		Ports   []int             `yaml:"ports"`
		Labels  map[string]string `yaml:"labels"`
	}

	cfg := New()

	defaults := &AppConfig{
		Network: NetworkConfig{
			IP:      net.ParseIP("127.0.0.1"),
			Timeout: 30 * time.Second,
		},
		Tags:  []string{"default"},
		Ports: []int{8080},
		Labels: map[string]string{
			"env": "dev",
		},
	}
	require.NoError(t, cfg.AddStruct(defaults))

	// Layer values the way files and environment would
	require.NoError(t, cfg.AddValue("network:ip", "192.168.1.100"))
	require.NoError(t, cfg.AddValue("network:subnet", "192.168.1.0/24"))
	require.NoError(t, cfg.AddValue("network:endpoint", "https://api.example.com:8443/v1"))
	require.NoError(t, cfg.AddYAML(`
network:
  timeout: 2m30s
  retry:
    count: 5
    interval: 10s
ports: [80, 443, 8080]
labels:
  env: production
  version: 1.2.3
`))
	require.NoError(t, cfg.AddEnviron([]string{"APP_tags=prod,staging,test"}, "APP_"))

	var result AppConfig
	require.NoError(t, cfg.Scan("", &result))

	assert.Equal(t, "192.168.1.100", result.Network.IP.String())
	assert.Equal(t, "192.168.1.0/24", result.Network.IPNet.String())
	assert.Equal(t, "https://api.example.com:8443/v1", result.Network.URL.String())
	assert.Equal(t, 150*time.Second, result.Network.Timeout)
	assert.Equal(t, 5, result.Network.Retry.Count)
	assert.Equal(t, 10*time.Second, result.Network.Retry.Interval)
	assert.Equal(t, []string{"prod", "staging", "test"}, result.Tags)
	assert.Equal(t, []int{80, 443, 8080}, result.Ports)
	assert.Equal(t, "production", result.Labels["env"])
	assert.Equal(t, "1.2.3", result.Labels["version"])
}

// TestScanWithBasePath tests scanning from nested paths
func TestScanWithBasePath(t *testing.T) {
	type ServerConfig struct {
		Host    string `yaml:"host"`
		Port    int    `yaml:"port"`
		Enabled bool   `yaml:"enabled"`
	}

	cfg, err := NewFromMap(map[string]any{
		"app": map[string]any{
			"server":   map[string]any{"host": "localhost", "port": 8080, "enabled": true},
			"database": map[string]any{"host": "dbhost"},
			"replicas": []any{
				map[string]any{"host": "r1", "port": 1},
				map[string]any{"host": "r2", "port": 2},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, cfg.AddValue("app:server:host", "appserver"))
	require.NoError(t, cfg.AddValue("app:server:port", 9000))

	t.Run("Section", func(t *testing.T) {
		var server ServerConfig
		require.NoError(t, cfg.Scan("app:server", &server))

		assert.Equal(t, "appserver", server.Host)
		assert.Equal(t, 9000, server.Port)
		assert.Equal(t, true, server.Enabled)
	})

	t.Run("AltDelimiter", func(t *testing.T) {
		var server ServerConfig
		require.NoError(t, cfg.Scan("app__server", &server))
		assert.Equal(t, "appserver", server.Host)
	})

	t.Run("SequenceElement", func(t *testing.T) {
		var replica ServerConfig
		require.NoError(t, cfg.Scan("app:replicas:1", &replica))
		assert.Equal(t, "r2", replica.Host)
		assert.Equal(t, 2, replica.Port)
	})

	t.Run("WholeSequence", func(t *testing.T) {
		var replicas []ServerConfig
		require.NoError(t, cfg.Scan("app:replicas", &replicas))
		require.Len(t, replicas, 2)
		assert.Equal(t, "r1", replicas[0].Host)
	})

	t.Run("NonExistentPath", func(t *testing.T) {
		var empty ServerConfig
		require.NoError(t, cfg.Scan("app:nonexistent", &empty))
		assert.Equal(t, "", empty.Host)
		assert.Equal(t, 0, empty.Port)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		var server ServerConfig
		err := cfg.Scan("app::server", &server)
		assert.ErrorIs(t, err, ErrPath)
	})
}

// TestInvalidScanTargets tests error handling for invalid targets
func TestInvalidScanTargets(t *testing.T) {
	cfg, _ := NewFromMap(map[string]any{"test": "value"})

	t.Run("NonPointer", func(t *testing.T) {
		var s struct{ Test string }
		err := cfg.Scan("", s)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be non-nil pointer")
	})

	t.Run("NilPointer", func(t *testing.T) {
		var s *struct{ Test string }
		err := cfg.Scan("", s)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must be non-nil pointer")
	})

	t.Run("ScalarIntoStruct", func(t *testing.T) {
		var s struct{ Test string }
		err := cfg.Scan("test", &s)
		assert.Error(t, err)
	})
}

// TestWeaklyTypedInput tests that string leaves from INI and env decode into typed fields
func TestWeaklyTypedInput(t *testing.T) {
	type Limits struct {
		MaxConns int           `yaml:"max_conns"`
		Ratio    float64       `yaml:"ratio"`
		Enabled  bool          `yaml:"enabled"`
		Timeout  time.Duration `yaml:"timeout"`
		Started  time.Time     `yaml:"started"`
	}

	cfg := New()
	require.NoError(t, cfg.AddINI(`[limits]
max_conns = 25
ratio = 0.75
enabled = true
timeout = 1m
started = 2024-01-02T03:04:05Z
`))

	var limits Limits
	require.NoError(t, cfg.Scan("limits", &limits))

	assert.Equal(t, 25, limits.MaxConns)
	assert.Equal(t, 0.75, limits.Ratio)
	assert.True(t, limits.Enabled)
	assert.Equal(t, time.Minute, limits.Timeout)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), limits.Started.UTC())
}

// TestScanTagName tests decoding with a non-default struct tag
func TestScanTagName(t *testing.T) {
	type Target struct {
		Name string `json:"service_name"`
	}

	cfg := NewWithOptions(Options{TagName: "json"})
	require.NoError(t, cfg.AddJSON(`{"service_name": "billing"}`))

	var target Target
	require.NoError(t, cfg.Scan("", &target))
	assert.Equal(t, "billing", target.Name)
}
