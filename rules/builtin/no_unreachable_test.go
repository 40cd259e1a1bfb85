package builtin_test

import "testing"

func TestNoUnreachable_FlagsCodeAfterReturn(t *testing.T) {
	source := `
function f() {
  return 1;
  doSomething();
}
`
	violations := lintSource(t, "no-unreachable", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "unreachable_code" {
		t.Fatalf("want 1 unreachable_code violation, got %+v", violations)
	}
}

func TestNoUnreachable_MergesConsecutiveUnreachableStatements(t *testing.T) {
	source := `
function f() {
  return 1;
  doSomething();
  doOther();
}
`
	violations := lintSource(t, "no-unreachable", nil, source)
	if len(violations) != 1 {
		t.Fatalf("want consecutive unreachable statements merged into 1 violation, got %+v", violations)
	}
}

func TestNoUnreachable_AllowsCodeAfterConditionalReturn(t *testing.T) {
	source := `
function f(x) {
  if (x) {
    return 1;
  }
  doSomething();
}
`
	violations := lintSource(t, "no-unreachable", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}

func TestNoUnreachable_FlagsFieldsAfterConstructorMissingSuper(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  x = 1;
  constructor() {
  }
}
`
	violations := lintSource(t, "no-unreachable", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "unreachable_code" {
		t.Fatalf("want 1 unreachable_code violation for fields before a missing super(), got %+v", violations)
	}
}

func TestNoUnreachable_AllowsFieldsWhenSuperIsCalled(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  x = 1;
  constructor() {
    super();
  }
}
`
	violations := lintSource(t, "no-unreachable", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations when super() is called, got %+v", violations)
	}
}
