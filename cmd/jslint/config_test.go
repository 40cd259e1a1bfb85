package main

import (
	"os"
	"path/filepath"
	"testing"

	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/rule"
	"jslint.dev/engine/rules/builtin"
)

func newTestRegistry(t *testing.T) *rule.Registry {
	t.Helper()
	reg := rule.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		t.Fatalf("registering builtin rules: %v", err)
	}
	return reg
}

func TestLoadConfig_DefaultsEveryRuleToError(t *testing.T) {
	reg := newTestRegistry(t)
	cfg, err := loadConfig("", reg)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SourceType != "module" {
		t.Errorf("want default source_type module, got %q", cfg.SourceType)
	}
	if cfg.EcmaVersion != 2022 {
		t.Errorf("want default ecma_version 2022, got %d", cfg.EcmaVersion)
	}
	for _, d := range reg.All() {
		rc, ok := cfg.Rules[d.Name]
		if !ok {
			t.Fatalf("expected a default entry for rule %q", d.Name)
		}
		if rc.Severity != diagnostic.SeverityError {
			t.Errorf("rule %q: want severity error, got %q", d.Name, rc.Severity)
		}
	}
}

func TestLoadConfig_ReadsFileAndValidatesFields(t *testing.T) {
	reg := newTestRegistry(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".jslintrc.json")
	contents := `{
		"ecma_version": 2021,
		"source_type": "script",
		"globals": {"myGlobal": "readonly"},
		"env_presets": ["node"],
		"rules": {
			"no-unreachable": {"severity": "warn"},
			"no-fallthrough": {"severity": "off"}
		}
	}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}

	cfg, err := loadConfig(path, reg)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.SourceType != "script" {
		t.Errorf("want source_type script, got %q", cfg.SourceType)
	}
	if cfg.EcmaVersion != 2021 {
		t.Errorf("want ecma_version 2021, got %d", cfg.EcmaVersion)
	}
	if rc := cfg.Rules["no-unreachable"]; rc.Severity != diagnostic.SeverityWarn {
		t.Errorf("want no-unreachable at warn, got %q", rc.Severity)
	}
	if rc := cfg.Rules["no-fallthrough"]; rc.Severity != diagnostic.SeverityOff {
		t.Errorf("want no-fallthrough off, got %q", rc.Severity)
	}
	found := false
	for name := range cfg.Globals {
		if name == "myGlobal" {
			found = true
		}
	}
	if !found {
		t.Errorf("want myGlobal present among globals, got %+v", cfg.Globals)
	}
	if _, ok := cfg.Globals["require"]; !ok {
		t.Errorf("want the node env preset's globals merged in, got %+v", cfg.Globals)
	}
}

func TestLoadConfig_MissingFileIsAnError(t *testing.T) {
	reg := newTestRegistry(t)
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.json"), reg); err == nil {
		t.Fatal("want an error for a missing config file")
	}
}

func TestLoadConfig_RejectsUnknownSeverity(t *testing.T) {
	reg := newTestRegistry(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".jslintrc.json")
	contents := `{"rules": {"no-unreachable": {"severity": "critical"}}}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing config fixture: %v", err)
	}
	if _, err := loadConfig(path, reg); err == nil {
		t.Fatal("want an error for an unknown severity")
	}
}
