// File: lixenwraith/config/doc.go

// Package config builds a layered configuration tree for Go applications
// from YAML, JSON, INI and TOML files, environment variables, in-memory maps,
// tagged structs and single key overrides.
//
// Sources are applied in the order they are added and later sources win.
// Whole sources are deep-merged: two mappings merge key by key, anything else,
// sequences included, replaces what was there. Single overrides (AddValue and
// environment variables) target one path and modify the tree in place.
//
// Features:
//   - Order-preserving mappings for every format
//   - Paths with ':' or '__' delimiters and numeric sequence indices
//   - Typed reads, struct decoding with mapstructure and generic GetTyped/ScanTyped
//   - Struct defaults with tag support
//   - Builder pattern, file discovery and source tracking
//   - Structured debug logging through zerolog
//
// Quick Start:
//
//	type AppConfig struct {
//	    Server struct {
//	        Host string `yaml:"host"`
//	        Port int    `yaml:"port"`
//	    } `yaml:"server"`
//	}
//
//	defaults := AppConfig{}
//	defaults.Server.Host = "localhost"
//	defaults.Server.Port = 8080
//
//	cfg, err := config.Quick(defaults, "MYAPP_", "config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	host, _ := cfg.String("server:host")
//	port, _ := cfg.Int64("server:port") // MYAPP_server__port=9090 overrides
//
// Explicit layering:
//
//	cfg, err := config.NewBuilder().
//	    WithDefaults(defaults).
//	    WithYAMLFile("settings.yaml", false).
//	    WithYAMLFile("settings.dev.yaml", true).
//	    WithEnv("MYAPP_").
//	    WithValue("server:port", 9090).
//	    Build()
//
// Navigation:
//
//	db, _ := cfg.Child("database")
//	host, _ := db.Get("host")
//	first, _ := cfg.Lookup("servers:0:name")
//
// Concurrency:
// A Config performs no locking. Build it once, then share it for reading.
package config
