// Package config is the engine's configuration surface: ecma_version,
// source_type, globals, env_presets, and per-rule severity/options,
// layered with `.env`-driven environment-variable defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"jslint.dev/engine/internal/errs"
	"jslint.dev/engine/internal/rule"
)

// Globalness is a declared global's visibility: writable, read-only,
// or turned off entirely.
type Globalness string

const (
	Writable Globalness = "writable"
	ReadOnly Globalness = "readonly"
	Off      Globalness = "off"
)

// Config is one analysis run's full configuration: ecma_version,
// source_type, globals, env_presets, and rules. Unknown rule names
// cause registration errors, not silent acceptance.
type Config struct {
	EcmaVersion int
	SourceType  string // "script" or "module"
	Globals     map[string]Globalness
	EnvPresets  []string
	Rules       map[string]rule.RuleConfig
}

// Load builds a Config from envPresets/globals/rules already parsed
// from a project's own config file or CLI flags, validating the
// resulting surface. It does not read the config file itself — that
// is the CLI's job — only the env-preset expansion and validation
// common to any caller.
func Load(ecmaVersion int, sourceType string, globals map[string]Globalness, envPresets []string, rules map[string]rule.RuleConfig) (*Config, error) {
	if sourceType != "script" && sourceType != "module" {
		return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("source_type must be \"script\" or \"module\", got %q", sourceType))
	}
	if ecmaVersion < 5 {
		return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("ecma_version %d is below the minimum supported version 5", ecmaVersion))
	}

	merged := make(map[string]Globalness, len(globals))
	for name, g := range globals {
		merged[name] = g
	}
	for _, preset := range envPresets {
		table, ok := EnvPresets[preset]
		if !ok {
			return nil, errs.New(errs.InvalidConfig, fmt.Sprintf("unknown env preset %q", preset))
		}
		for name, writable := range table {
			if _, exists := merged[name]; exists {
				continue // an explicit globals entry always wins over a preset
			}
			if writable {
				merged[name] = Writable
			} else {
				merged[name] = ReadOnly
			}
		}
	}

	return &Config{
		EcmaVersion: ecmaVersion,
		SourceType:  sourceType,
		Globals:     merged,
		EnvPresets:  envPresets,
		Rules:       rules,
	}, nil
}

// GlobalNames returns every global name not set to Off, for
// scope.Options.Globals.
func (c *Config) GlobalNames() []string {
	out := make([]string, 0, len(c.Globals))
	for name, g := range c.Globals {
		if g != Off {
			out = append(out, name)
		}
	}
	return out
}

// LoadDotEnv loads a `.env` file (if present) into the process
// environment, a local/CI convenience. Missing files are not an
// error; malformed ones are.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errs.Wrap(errs.IO, "loading .env file", err)
	}
	return nil
}

// EnvInt reads an integer environment variable, falling back to def
// when unset or unparsable.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvString reads a string environment variable, falling back to def
// when unset.
func EnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
