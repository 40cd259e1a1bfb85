package builtin_test

import "testing"

func TestGetterReturn_FlagsFallThroughGetter(t *testing.T) {
	source := `
class C {
  get value() {
    if (this.x) {
      return this.x;
    }
  }
}
`
	violations := lintSource(t, "getter-return", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "expected_always" {
		t.Fatalf("want 1 expected_always violation, got %+v", violations)
	}
}

func TestGetterReturn_FlagsBareReturnByDefault(t *testing.T) {
	source := `
class C {
  get value() {
    return;
  }
}
`
	violations := lintSource(t, "getter-return", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "expected" {
		t.Fatalf("want 1 expected violation, got %+v", violations)
	}
}

func TestGetterReturn_AllowImplicitPermitsBareReturn(t *testing.T) {
	source := `
class C {
  get value() {
    if (this.x) {
      return;
    }
    return this.x;
  }
}
`
	violations := lintSource(t, "getter-return", map[string]any{"allowImplicit": true}, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations with allowImplicit, got %+v", violations)
	}
}

func TestGetterReturn_AllowsGetterThatAlwaysReturns(t *testing.T) {
	source := `
class C {
  get value() {
    return this.x;
  }
}
`
	violations := lintSource(t, "getter-return", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}
