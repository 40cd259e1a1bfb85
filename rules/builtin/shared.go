// Package builtin supplies a handful of rule.Descriptor values that
// exercise the Rule Runtime, the Scope Manager and the Code-Path
// Analyzer end to end: consistent-return, constructor-super,
// getter-return, no-fallthrough, no-unreachable and
// no-unreachable-loop. Each is simplified down to the shapes its own
// test scenarios exercise rather than handling every edge case a
// general-purpose linter plugin would.
package builtin

import (
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/rule"
)

// Register adds every builtin rule to reg. Call once when assembling
// an engine.
func Register(reg *rule.Registry) error {
	descriptors := []*rule.Descriptor{
		consistentReturnRule(),
		constructorSuperRule(),
		getterReturnRule(),
		noFallthroughRule(),
		noUnreachableRule(),
		noUnreachableLoopRule(),
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// firstNonCommentNamedChild returns n's first named child that isn't a
// comment, or nil. Used to test whether a return_statement carries an
// argument.
func firstNonCommentNamedChild(n *sitter.Node) *sitter.Node {
	for _, c := range ast.NamedChildren(n) {
		if !ast.Is(c, ast.KindComment) {
			return c
		}
	}
	return nil
}

// isVoidZero reports whether n is the expression `void <anything>` —
// the canonical "explicitly no value" idiom consistent-return's
// treatUndefinedAsUnspecified option also recognizes alongside a bare
// `undefined` identifier.
func isVoidZero(n *sitter.Node, source []byte) bool {
	if !ast.Is(n, ast.KindUnaryExpression) {
		return false
	}
	op := ast.Field(n, "operator")
	return op != nil && ast.Text(op, source) == "void"
}

// isES5Constructor reports whether n is a plain function/function
// expression named with an initial capital letter — the pre-ES6
// "new Foo()" constructor convention consistent-return exempts from
// its "missing return" check the same way a class constructor is
// exempt.
func isES5Constructor(n *sitter.Node, source []byte) bool {
	switch n.Type() {
	case ast.KindFunctionDeclaration, ast.KindFunction:
	default:
		return false
	}
	name := ast.Field(n, "name")
	if name == nil {
		return false
	}
	text := ast.Text(name, source)
	return text != "" && unicode.IsUpper(rune(text[0]))
}

// isClassConstructorNode reports whether n is a class's constructor
// method_definition.
func isClassConstructorNode(n *sitter.Node, source []byte) bool {
	return ast.Is(n, ast.KindMethodDefinition) && ast.MethodDefinitionKind(n, source) == ast.MethodConstructor
}

// upperCaseFirst capitalizes s's first rune, leaving the rest as-is.
func upperCaseFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// describeOriginCapitalized names a code path's origin the way
// consistent-return's mismatched-return-value message does:
// capitalized, "Program" for the top-level path.
func describeOriginCapitalized(origin *sitter.Node, source []byte) string {
	if ast.Is(origin, ast.KindProgram) {
		return "Program"
	}
	return upperCaseFirst(ast.GetFunctionNameWithKind(origin, source))
}

// describeOriginLower names a code path's origin the way
// consistent-return's "missing return" message does: lower-case,
// "program" for the top-level path.
func describeOriginLower(origin *sitter.Node, source []byte) string {
	if ast.Is(origin, ast.KindProgram) {
		return "program"
	}
	return ast.GetFunctionNameWithKind(origin, source)
}

// headRangeOf returns the range a "missing return" style diagnostic
// should point at for a code path's origin: the whole node for
// Program, its function head range otherwise.
func headRangeOf(origin *sitter.Node, tokens *ast.Tokens) ast.Range {
	if ast.Is(origin, ast.KindProgram) {
		return ast.RangeOf(origin)
	}
	return ast.GetFunctionHeadRange(origin, tokens)
}

func boolOption(options map[string]any, key string) bool {
	if options == nil {
		return false
	}
	v, _ := options[key].(bool)
	return v
}

func stringsOption(options map[string]any, key string) []string {
	if options == nil {
		return nil
	}
	raw, ok := options[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

