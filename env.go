// FILE: lixenwraith/config/env.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AddEnvironmentVariables applies the process environment as key overrides.
// See AddEnviron for the rules.
func (c *Config) AddEnvironmentVariables(prefix string) error {
	return c.AddEnviron(os.Environ(), prefix)
}

// AddEnviron applies "NAME=value" pairs as key overrides. With a non-empty
// prefix only names starting with it, compared case-insensitively, are used
// and the prefix is removed; the rest of the name keeps its case. Names are
// split into paths on ':' or '__', so APP_DB__HOST with prefix "APP_" sets
// DB:HOST. Values are always strings.
//
// The call is all-or-nothing: if any pair fails, the tree is left as it was
// and the failures are returned joined.
func (c *Config) AddEnviron(environ []string, prefix string) error {
	// -- 1. Collect matching pairs
	type envPair struct {
		name, key, value string
		path             Path
		err              error
	}
	pairs := make([]envPair, 0, len(environ))
	for _, entry := range environ {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || name == "" {
			continue
		}
		key, matched := stripPrefix(name, prefix)
		if !matched {
			continue
		}
		path, err := ParsePath(key)
		if errors.Is(err, ErrEmptyPath) {
			c.logger.Debug().
				Str("source", string(SourceEnv)).
				Str("name", name).
				Msg("environment variable has no key after prefix, skipped")
			continue
		}
		pairs = append(pairs, envPair{name: name, key: key, value: value, path: path, err: err})
	}

	// -- 2. Apply to a copy
	root := cloneValue(c.root)
	var errs []error
	for _, p := range pairs {
		err := p.err
		if err == nil {
			err = setPath(root, p.path, p.key, p.value)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("environment variable %s: %w", p.name, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// -- 3. Commit
	c.root = root
	c.record(SourceRecord{Source: SourceEnv, Name: prefix})
	c.logger.Debug().
		Str("source", string(SourceEnv)).
		Str("prefix", prefix).
		Int("keys", len(pairs)).
		Msg("environment variables applied")
	return nil
}

// stripPrefix removes prefix from name, ignoring case in the comparison.
func stripPrefix(name, prefix string) (string, bool) {
	if prefix == "" {
		return name, true
	}
	if len(name) < len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return "", false
	}
	return name[len(prefix):], true
}
