package scope

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJS(t *testing.T, source string) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree := parser.Parse(nil, []byte(source))
	require.NotNil(t, tree)
	return tree, []byte(source)
}

func TestAnalyze_VarHoistsToFunctionScope(t *testing.T) {
	tree, src := parseJS(t, `
function f() {
  if (true) {
    var x = 1;
  }
  return x;
}
`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{})
	require.NotNil(t, m.Global)

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == FunctionScope {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)

	v := fnScope.findOwnVariable("x")
	require.NotNil(t, v, "var x should hoist to the function scope, not the if-block")
	assert.Len(t, v.References, 2, "the initializer write and the return read")
}

func TestAnalyze_LetStaysBlockScoped(t *testing.T) {
	tree, src := parseJS(t, `
function f() {
  if (true) {
    let y = 1;
  }
}
`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{})

	var fnScope, blockScope *Scope
	for _, s := range m.Scopes() {
		switch s.Kind {
		case FunctionScope:
			fnScope = s
		case Block:
			blockScope = s
		}
	}
	require.NotNil(t, fnScope)
	require.NotNil(t, blockScope)

	assert.Nil(t, fnScope.findOwnVariable("y"))
	assert.NotNil(t, blockScope.findOwnVariable("y"))
}

func TestAnalyze_UnresolvedReferencePropagatesThrough(t *testing.T) {
	tree, src := parseJS(t, `
function f() {
  return undeclaredName;
}
`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{})

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == FunctionScope {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)
	require.Len(t, fnScope.References(), 1)
	ref := fnScope.References()[0]
	assert.Nil(t, ref.Resolved)
	assert.Contains(t, m.Global.Through(), ref)
}

func TestAnalyze_GlobalsOptionResolvesImplicitBindings(t *testing.T) {
	tree, src := parseJS(t, `console.log(window.location);`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{Globals: []string{"console", "window"}})

	var resolvedNames []string
	for _, ref := range m.Global.References() {
		if ref.Resolved != nil {
			resolvedNames = append(resolvedNames, ref.Resolved.Name)
		}
	}
	assert.ElementsMatch(t, []string{"console", "window"}, resolvedNames)
}

func TestAnalyze_FunctionParametersBindInFunctionScope(t *testing.T) {
	tree, src := parseJS(t, `function f(a, {b, c = 1}, ...rest) { return a + b + c + rest; }`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{})

	var fnScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == FunctionScope {
			fnScope = s
		}
	}
	require.NotNil(t, fnScope)
	for _, name := range []string{"a", "b", "c", "rest"} {
		assert.NotNil(t, fnScope.findOwnVariable(name), "missing parameter binding %q", name)
	}
}

func TestAnalyze_CatchClauseBindsParameterInOwnScope(t *testing.T) {
	tree, src := parseJS(t, `
try {
} catch (e) {
  console.log(e);
}
`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{Globals: []string{"console"}})

	var catchScope *Scope
	for _, s := range m.Scopes() {
		if s.Kind == Catch {
			catchScope = s
		}
	}
	require.NotNil(t, catchScope)
	v := catchScope.findOwnVariable("e")
	require.NotNil(t, v)
	assert.Len(t, v.References, 1)
}

func TestManager_DeclaredVariables(t *testing.T) {
	tree, src := parseJS(t, `var a, b;`)
	defer tree.Close()

	m := Analyze(tree.RootNode(), src, Options{})

	var declNode *sitter.Node
	var find func(*sitter.Node)
	find = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "variable_declaration" {
			declNode = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			find(n.Child(i))
		}
	}
	find(tree.RootNode())
	require.NotNil(t, declNode)

	vars := m.DeclaredVariables(declNode)
	var names []string
	for _, v := range vars {
		names = append(names, v.Name)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}
