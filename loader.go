// FILE: lixenwraith/config/loader.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Format names a configuration file format
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
)

// AddYAMLFile parses a YAML file and merges it over the current tree.
// With optional set, a missing file is skipped without error.
func (c *Config) AddYAMLFile(path string, optional bool) error {
	return c.addFile(path, FormatYAML, optional)
}

// AddJSONFile parses a JSON file and merges it over the current tree.
// With optional set, a missing file is skipped without error.
func (c *Config) AddJSONFile(path string, optional bool) error {
	return c.addFile(path, FormatJSON, optional)
}

// AddINIFile parses an INI file and merges it over the current tree.
// Sections become top-level keys and every value is a string. Keys of the
// DEFAULT section are copied into every other section.
// With optional set, a missing file is skipped without error.
func (c *Config) AddINIFile(path string, optional bool) error {
	return c.addFile(path, FormatINI, optional)
}

// AddTOMLFile parses a TOML file and merges it over the current tree.
// With optional set, a missing file is skipped without error.
func (c *Config) AddTOMLFile(path string, optional bool) error {
	return c.addFile(path, FormatTOML, optional)
}

// AddFile merges a file whose format is taken from Options.FileFormat or,
// when unset, detected from the extension and then from the content.
func (c *Config) AddFile(path string, optional bool) error {
	return c.addFile(path, c.options.FileFormat, optional)
}

// AddYAML merges YAML content over the current tree.
func (c *Config) AddYAML(content string) error {
	return c.addContent([]byte(content), FormatYAML)
}

// AddJSON merges JSON content over the current tree.
func (c *Config) AddJSON(content string) error {
	return c.addContent([]byte(content), FormatJSON)
}

// AddINI merges INI content over the current tree.
func (c *Config) AddINI(content string) error {
	return c.addContent([]byte(content), FormatINI)
}

// AddTOML merges TOML content over the current tree.
func (c *Config) AddTOML(content string) error {
	return c.addContent([]byte(content), FormatTOML)
}

// AddReader reads r to the end and merges its content. An empty format is
// detected from the content.
func (c *Config) AddReader(r io.Reader, format Format) error {
	maxSize := c.options.MaxFileSize
	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return fmt.Errorf("%w: content exceeds %d bytes", ErrFileTooLarge, maxSize)
	}
	return c.addContent(data, format)
}

func (c *Config) addContent(data []byte, format Format) error {
	if format == "" {
		format = detectFormatFromContent(data)
		if format == "" {
			return fmt.Errorf("%w: unable to detect format from content", ErrUnknownFormat)
		}
	}

	v, err := parse(data, format)
	if err != nil {
		return &ParseError{Format: format, Err: err}
	}
	c.merge(v, SourceRecord{Source: SourceContent, Format: format})
	return nil
}

func (c *Config) addFile(path string, format Format, optional bool) error {
	data, err := c.readFile(path)
	if err != nil {
		if optional && errors.Is(err, ErrMissingFile) {
			c.logger.Debug().
				Str("source", string(SourceFile)).
				Str("name", path).
				Msg("optional configuration file not found, skipped")
			c.record(SourceRecord{Source: SourceFile, Name: path, Format: format, Skipped: true})
			return nil
		}
		return err
	}

	if format == "" {
		// Try extension first, then fall back to content detection
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(data)
			if format == "" {
				return fmt.Errorf("%w: unable to determine config format for file '%s'", ErrUnknownFormat, path)
			}
		}
	}

	v, err := parse(data, format)
	if err != nil {
		return &ParseError{Path: path, Format: format, Err: err}
	}
	c.merge(v, SourceRecord{Source: SourceFile, Name: path, Format: format})
	return nil
}

// readFile reads a configuration file, enforcing Options.MaxFileSize.
func (c *Config) readFile(path string) ([]byte, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrMissingFile, path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("config path '%s' is a directory", path)
	}

	maxSize := c.options.MaxFileSize
	if maxSize > 0 && fileInfo.Size() > maxSize {
		return nil, fmt.Errorf("%w: '%s' is larger than %d bytes", ErrFileTooLarge, path, maxSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	// The file may grow between stat and read
	var reader io.Reader = file
	if maxSize > 0 {
		reader = io.LimitReader(file, maxSize+1)
	}

	fileData, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if maxSize > 0 && int64(len(fileData)) > maxSize {
		return nil, fmt.Errorf("%w: '%s' is larger than %d bytes", ErrFileTooLarge, path, maxSize)
	}
	return fileData, nil
}

// parse converts raw content to a tree value. Empty documents yield an
// empty mapping so that they contribute nothing when merged.
func parse(data []byte, format Format) (any, error) {
	var (
		v   any
		err error
	)
	switch format {
	case FormatYAML:
		v, err = parseYAML(data)
	case FormatJSON:
		v, err = parseJSON(data)
	case FormatINI:
		v, err = parseINI(data)
	case FormatTOML:
		v, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if v == nil {
		return NewMap(), nil
	}
	return v, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".ini", ".cfg":
		return FormatINI
	case ".toml", ".tml":
		return FormatTOML
	default:
		// .conf, .config and unknown extensions go through content detection
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) Format {
	// Try JSON first (strict format)
	if json.Valid(data) {
		return FormatJSON
	}

	// YAML accepts almost any text as a scalar, so only a mapping counts
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil &&
		len(doc.Content) == 1 && doc.Content[0].Kind == yaml.MappingNode {
		return FormatYAML
	}

	var tomlTest map[string]any
	if _, err := toml.Decode(string(data), &tomlTest); err == nil {
		return FormatTOML
	}

	if _, err := ini.Load(data); err == nil {
		return FormatINI
	}

	return ""
}
