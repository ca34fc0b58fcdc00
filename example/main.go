// FILE: lixenwraith/config/example/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/config/v2"
)

// AppConfig is the typed view the demo decodes into.
type AppConfig struct {
	Server struct {
		Host         string        `yaml:"host"`
		Port         int64         `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		AllowedHosts []string      `yaml:"allowed_hosts"`
	} `yaml:"server"`
	Database struct {
		URL      string `yaml:"url"`
		MaxConns int    `yaml:"max_conns"`
	} `yaml:"database"`
	Workers []struct {
		Name  string `yaml:"name"`
		Queue string `yaml:"queue"`
	} `yaml:"workers"`
}

const baseYAML = `
server:
  host: localhost
  port: 8080
  read_timeout: 5s
  allowed_hosts: [localhost, 127.0.0.1]
database:
  url: postgres://localhost/app
  max_conns: 10
workers:
  - name: mailer
    queue: mail
  - name: indexer
    queue: search
`

const overrideJSON = `{"server": {"allowed_hosts": ["example.com"]}, "database": {"max_conns": 50}}`

func main() {
	// =========================================================================
	// PART 1: INITIAL SETUP
	// Write a base YAML file and a JSON override file to a temp directory.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Creating configuration files...")

	dir, err := os.MkdirTemp("", "config-demo")
	if err != nil {
		log.Fatalf("❌ Failed to create temp dir: %v", err)
	}
	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.RemoveAll(dir)
		os.Unsetenv("APP_server__port")
		os.Unsetenv("APP_workers__1__queue")
	}()

	basePath := filepath.Join(dir, "settings.yaml")
	overridePath := filepath.Join(dir, "settings.production.json")
	if err := os.WriteFile(basePath, []byte(baseYAML), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", basePath, err)
	}
	if err := os.WriteFile(overridePath, []byte(overrideJSON), 0644); err != nil {
		log.Fatalf("❌ Failed to write %s: %v", overridePath, err)
	}
	log.Printf("✅ Wrote %s and %s", basePath, overridePath)

	// =========================================================================
	// PART 2: LAYERING WITH THE BUILDER
	// Later sources win. Mappings merge, sequences are replaced, env vars and
	// single values target one path.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Layering sources with the Builder...")

	os.Setenv("APP_server__port", "9090")
	os.Setenv("APP_workers__1__queue", "search-v2")
	log.Println("   (Set APP_server__port=9090 and APP_workers__1__queue=search-v2)")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	validator := func(c *config.Config) error {
		port, err := c.Int64("server:port")
		if err != nil {
			return err
		}
		if port < 1024 || port > 65535 {
			return fmt.Errorf("port %d is outside the recommended range (1024-65535)", port)
		}
		return nil
	}

	cfg, err := config.NewBuilder().
		WithLogger(&logger).
		WithYAMLFile(basePath, false).
		WithJSONFile(overridePath, false).
		WithYAMLFile(filepath.Join(dir, "settings.local.yaml"), true). // Missing, skipped
		WithEnv("APP_").
		WithValue("database:url", "postgres://db.internal/app").
		WithValidator(validator).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ Builder finished successfully.")

	// =========================================================================
	// PART 3: NAVIGATING THE TREE
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Reading values...")

	server, err := cfg.Child("server")
	if err != nil {
		log.Fatalf("❌ Missing server section: %v", err)
	}
	host, _ := server.Get("host")
	hosts, _ := server.Child("allowed_hosts")
	queue, _ := cfg.Lookup("workers:1:queue")

	fmt.Printf("     server.host:          %v\n", host)
	fmt.Printf("     server.allowed_hosts: %v (replaced, not appended)\n", hosts.Plain())
	fmt.Printf("     workers[1].queue:     %v (from environment)\n", queue.Value())
	for name, node := range cfg.Root().Entries() {
		fmt.Printf("     top-level key %-10s %s\n", name, node.Kind())
	}

	// =========================================================================
	// PART 4: DECODING INTO A STRUCT
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 4: Decoding into AppConfig...")

	var app AppConfig
	if err := cfg.Scan("", &app); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}
	printCurrentState(&app)

	fmt.Println(cfg.Debug())
}

// printCurrentState is a helper to display the typed config state.
func printCurrentState(cfg *AppConfig) {
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Server:       %s:%d (read timeout %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.ReadTimeout)
	fmt.Printf("     Allowed:      %v\n", cfg.Server.AllowedHosts)
	fmt.Printf("     Database:     %s (max %d conns)\n", cfg.Database.URL, cfg.Database.MaxConns)
	for i, w := range cfg.Workers {
		fmt.Printf("     Worker %d:     %s -> %s\n", i, w.Name, w.Queue)
	}
	fmt.Println("   --------------------------------------------------")
}
