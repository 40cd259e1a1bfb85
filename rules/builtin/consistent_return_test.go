package builtin_test

import "testing"

func TestConsistentReturn_FlagsMixedValueReturns(t *testing.T) {
	source := `
function f(x) {
  if (x) {
    return 1;
  }
  return;
}
`
	violations := lintSource(t, "consistent-return", nil, source)
	if len(violations) != 1 {
		t.Fatalf("want 1 violation, got %d: %+v", len(violations), violations)
	}
	if violations[0].MessageID != "missing_return_value" {
		t.Errorf("want missing_return_value, got %s", violations[0].MessageID)
	}
}

func TestConsistentReturn_FlagsFallThroughAfterValueReturn(t *testing.T) {
	source := `
function f(x) {
  if (x) {
    return 1;
  }
}
`
	violations := lintSource(t, "consistent-return", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "missing_return" {
		t.Fatalf("want 1 missing_return violation, got %+v", violations)
	}
}

func TestConsistentReturn_AllowsConsistentValueReturns(t *testing.T) {
	source := `
function f(x) {
  if (x) {
    return 1;
  }
  return 2;
}
`
	violations := lintSource(t, "consistent-return", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}

func TestConsistentReturn_TreatUndefinedAsUnspecified(t *testing.T) {
	source := `
function f(x) {
  if (x) {
    return undefined;
  }
  return;
}
`
	violations := lintSource(t, "consistent-return", map[string]any{"treatUndefinedAsUnspecified": true}, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations with treatUndefinedAsUnspecified, got %+v", violations)
	}
}
