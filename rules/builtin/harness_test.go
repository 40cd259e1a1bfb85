package builtin_test

import (
	"context"
	"testing"

	"jslint.dev/engine/internal/config"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/engine"
	"jslint.dev/engine/internal/rule"
	"jslint.dev/engine/rules/builtin"
)

// lintSource parses and analyzes source with only the named rule
// enabled at "error" severity, options attached verbatim. It spins up
// just enough machinery to exercise one rule in isolation.
func lintSource(t *testing.T, ruleName string, options map[string]any, source string) []diagnostic.Violation {
	t.Helper()

	reg := rule.NewRegistry()
	if err := builtin.Register(reg); err != nil {
		t.Fatalf("registering builtin rules: %v", err)
	}

	cfg, err := config.Load(2022, "module", nil, nil, map[string]rule.RuleConfig{
		ruleName: {Severity: diagnostic.SeverityError, Options: options},
	})
	if err != nil {
		t.Fatalf("building config: %v", err)
	}

	eng := engine.New(reg)
	rt, err := eng.NewRuntime(cfg)
	if err != nil {
		t.Fatalf("building runtime: %v", err)
	}

	res := eng.AnalyzeFile(context.Background(), "test.js", []byte(source), cfg, rt, 0)
	if res.Kind != diagnostic.ResultOK {
		t.Fatalf("analysis did not complete ok: kind=%s error=%s", res.Kind, res.Error)
	}
	return res.Violations
}

func messageIDs(vs []diagnostic.Violation) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.MessageID
	}
	return out
}
