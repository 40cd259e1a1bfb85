package builtin_test

import "testing"

func TestNoUnreachableLoop_FlagsLoopThatAlwaysBreaks(t *testing.T) {
	source := `
function f(items) {
  while (items.length) {
    doSomething();
    break;
  }
}
`
	violations := lintSource(t, "no-unreachable-loop", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "invalid" {
		t.Fatalf("want 1 invalid violation, got %+v", violations)
	}
}

func TestNoUnreachableLoop_AllowsLoopThatCanIterate(t *testing.T) {
	source := `
function f(items) {
  while (items.length) {
    doSomething();
    items.pop();
  }
}
`
	violations := lintSource(t, "no-unreachable-loop", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}

func TestNoUnreachableLoop_AllowsConditionalContinuation(t *testing.T) {
	source := `
function f(items) {
  while (items.length) {
    if (items[0].skip) {
      continue;
    }
    doSomething();
    break;
  }
}
`
	violations := lintSource(t, "no-unreachable-loop", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations when a branch can loop again, got %+v", violations)
	}
}

func TestNoUnreachableLoop_IgnoreOptionSkipsConfiguredLoopKind(t *testing.T) {
	source := `
function f(items) {
  while (items.length) {
    doSomething();
    break;
  }
}
`
	violations := lintSource(t, "no-unreachable-loop", map[string]any{"ignore": []any{"WhileStatement"}}, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations when WhileStatement is ignored, got %+v", violations)
	}
}

func TestNoUnreachableLoop_FlagsForLoopWithOnlyOneIteration(t *testing.T) {
	source := `
function f(items) {
  for (let i = 0; i < items.length; i++) {
    return items[i];
  }
}
`
	violations := lintSource(t, "no-unreachable-loop", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "invalid" {
		t.Fatalf("want 1 invalid violation for a for-loop that always returns, got %+v", violations)
	}
}
