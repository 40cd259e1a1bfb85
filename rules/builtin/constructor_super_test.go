package builtin_test

import "testing"

func TestConstructorSuper_FlagsMissingSuperInDerivedClass(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  constructor() {
    this.x = 1;
  }
}
`
	violations := lintSource(t, "constructor-super", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "missing_all" {
		t.Fatalf("want 1 missing_all violation, got %+v", violations)
	}
}

func TestConstructorSuper_FlagsSuperMissingOnSomePaths(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  constructor(x) {
    if (x) {
      super();
    }
  }
}
`
	violations := lintSource(t, "constructor-super", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "missing_some" {
		t.Fatalf("want 1 missing_some violation, got %+v", violations)
	}
}

func TestConstructorSuper_AllowsSuperCallOnEveryPath(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  constructor(x) {
    if (x) {
      super(x);
    } else {
      super();
    }
  }
}
`
	violations := lintSource(t, "constructor-super", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations, got %+v", violations)
	}
}

func TestConstructorSuper_FlagsSuperOutsideConstructor(t *testing.T) {
	source := `
class Base {}
class Derived extends Base {
  constructor() {
    super();
  }
  method() {
    super();
  }
}
`
	violations := lintSource(t, "constructor-super", nil, source)
	if len(violations) != 1 || violations[0].MessageID != "unexpected" {
		t.Fatalf("want 1 unexpected violation, got %+v", violations)
	}
}

func TestConstructorSuper_AllowsBaseClassWithoutSuper(t *testing.T) {
	source := `
class Base {
  constructor() {
    this.x = 1;
  }
}
`
	violations := lintSource(t, "constructor-super", nil, source)
	if len(violations) != 0 {
		t.Fatalf("want no violations for a base class, got %+v", violations)
	}
}
