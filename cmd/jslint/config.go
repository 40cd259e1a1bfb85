package main

import (
	"encoding/json"
	"fmt"
	"os"

	"jslint.dev/engine/internal/config"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/rule"
)

// fileConfig is the on-disk shape of a project's `.jslintrc.json`:
// ecma_version/source_type/globals/env_presets/rules, serialized
// directly so the file a project checks in mirrors the in-memory
// config struct field for field.
type fileConfig struct {
	EcmaVersion int                         `json:"ecma_version"`
	SourceType  string                      `json:"source_type"`
	Globals     map[string]string           `json:"globals"`
	EnvPresets  []string                    `json:"env_presets"`
	Rules       map[string]fileRuleConfig   `json:"rules"`
}

type fileRuleConfig struct {
	Severity string         `json:"severity"`
	Options  map[string]any `json:"options"`
}

func defaultFileConfig(reg *rule.Registry) fileConfig {
	rules := make(map[string]fileRuleConfig)
	for _, d := range reg.All() {
		rules[d.Name] = fileRuleConfig{Severity: "error"}
	}
	return fileConfig{
		EcmaVersion: 2022,
		SourceType:  "module",
		Rules:       rules,
	}
}

// loadConfig reads path and builds a config.Config, defaulting to every
// registered rule at "error" when path is empty; a path that names a
// missing file is an error — a CLI convenience layered on top of the engine's
// required-parameters contract, not part of the core engine itself.
func loadConfig(path string, reg *rule.Registry) (*config.Config, error) {
	fc := defaultFileConfig(reg)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("config file %q not found", path)
			}
			return nil, fmt.Errorf("reading config file %q: %w", path, err)
		}
		var loaded fileConfig
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("parsing config file %q: %w", path, err)
		}
		fc = loaded
	}

	globals := make(map[string]config.Globalness, len(fc.Globals))
	for name, v := range fc.Globals {
		switch v {
		case "writable":
			globals[name] = config.Writable
		case "readonly":
			globals[name] = config.ReadOnly
		case "off":
			globals[name] = config.Off
		default:
			return nil, fmt.Errorf("globals[%q]: unknown globalness %q", name, v)
		}
	}

	rules := make(map[string]rule.RuleConfig, len(fc.Rules))
	for name, rc := range fc.Rules {
		sev := diagnostic.Severity(rc.Severity)
		switch sev {
		case diagnostic.SeverityOff, diagnostic.SeverityWarn, diagnostic.SeverityError:
		default:
			return nil, fmt.Errorf("rules[%q]: unknown severity %q", name, rc.Severity)
		}
		rules[name] = rule.RuleConfig{Severity: sev, Options: rc.Options}
	}

	sourceType := fc.SourceType
	if sourceType == "" {
		sourceType = "module"
	}
	ecmaVersion := fc.EcmaVersion
	if ecmaVersion == 0 {
		ecmaVersion = 2022
	}

	return config.Load(ecmaVersion, sourceType, globals, fc.EnvPresets, rules)
}
