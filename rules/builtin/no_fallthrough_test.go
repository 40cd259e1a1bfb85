package builtin_test

import "testing"

func TestNoFallthrough_FlagsCaseWithoutBreak(t *testing.T) {
	source := `
switch (x) {
  case 1:
    doSomething();
  case 2:
    doOther();
    break;
}
`
	violations := lintSource(t, "no-fallthrough", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "case" {
		t.Fatalf("want 1 case violation, got %+v", violations)
	}
}

func TestNoFallthrough_AllowsExplicitBreak(t *testing.T) {
	source := `
switch (x) {
  case 1:
    doSomething();
    break;
  case 2:
    doOther();
    break;
}
`
	violations := lintSource(t, "no-fallthrough", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}

func TestNoFallthrough_AllowsFallthroughComment(t *testing.T) {
	source := `
switch (x) {
  case 1:
    doSomething();
    // falls through
  case 2:
    doOther();
    break;
}
`
	violations := lintSource(t, "no-fallthrough", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations with a fallthrough comment, got %+v", violations)
	}
}

func TestNoFallthrough_FlagsEmptyCaseByDefault(t *testing.T) {
	source := `
switch (x) {
  case 1:

  case 2:
    doOther();
    break;
}
`
	violations := lintSource(t, "no-fallthrough", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "case" {
		t.Fatalf("want 1 case violation for an empty case, got %+v", violations)
	}
}

func TestNoFallthrough_AllowEmptyCaseOption(t *testing.T) {
	source := `
switch (x) {
  case 1:

  case 2:
    doOther();
    break;
}
`
	violations := lintSource(t, "no-fallthrough", map[string]any{"allowEmptyCase": true}, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations with allowEmptyCase, got %+v", violations)
	}
}

func TestNoFallthrough_FlagsFallthroughIntoDefault(t *testing.T) {
	source := `
switch (x) {
  case 1:
    doSomething();
  default:
    doOther();
}
`
	violations := lintSource(t, "no-fallthrough", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "default" {
		t.Fatalf("want 1 default violation, got %+v", violations)
	}
}
