package builtin

import (
	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/rule"
)

// consistentReturnFuncInfo remembers the first return_statement a code
// path saw — whether it carried a value and what to call the
// enclosing function if a later return disagrees.
type consistentReturnFuncInfo struct {
	hasValue  bool
	messageID string
	name      string
}

type consistentReturnConfig struct {
	treatUndefinedAsUnspecified bool
}

type consistentReturnState struct {
	funcInfos map[*codepath.CodePath]*consistentReturnFuncInfo
}

// consistentReturnRule flags a function where some return statements
// carry a value and others don't, or where control can fall off the
// end of a function whose other returns all carried one. The
// treatUndefinedAsUnspecified option controls whether `return
// undefined;` counts as carrying a value; ES5-style and class
// constructors are exempt from the fall-off-the-end check.
func consistentReturnRule() *rule.Descriptor {
	return &rule.Descriptor{
		Name:     "consistent-return",
		Language: "javascript",
		Messages: map[string]string{
			"missing_return":          "Expected to return a value at the end of {{name}}.",
			"missing_return_value":    "{{name}} expected a return value.",
			"unexpected_return_value": "{{name}} expected no return value.",
		},
		State: rule.StateInit{
			PerConfig: func(options map[string]any) (any, error) {
				return &consistentReturnConfig{treatUndefinedAsUnspecified: boolOption(options, "treatUndefinedAsUnspecified")}, nil
			},
			PerFileRun: func(any) any {
				return &consistentReturnState{funcInfos: map[*codepath.CodePath]*consistentReturnFuncInfo{}}
			},
		},
		Listeners: []rule.Listener{
			{
				Pattern: ast.KindReturnStatement,
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					cfg := ctx.Config().(*consistentReturnConfig)
					st := ctx.State().(*consistentReturnState)
					path := ctx.CurrentCodePath()
					if path == nil {
						return
					}
					node := ctx.Node()
					source := ctx.Source()
					arg := firstNonCommentNamedChild(node)
					hasValue := arg != nil
					if hasValue && cfg.treatUndefinedAsUnspecified {
						if ast.Is(arg, ast.KindUndefined) || isVoidZero(arg, source) {
							hasValue = false
						}
					}
					info, ok := st.funcInfos[path]
					if !ok {
						messageID := "unexpected_return_value"
						if hasValue {
							messageID = "missing_return_value"
						}
						st.funcInfos[path] = &consistentReturnFuncInfo{
							hasValue:  hasValue,
							messageID: messageID,
							name:      describeOriginCapitalized(path.Origin, source),
						}
						return
					}
					if info.hasValue != hasValue {
						ctx.Report(node, info.messageID, map[string]string{"name": info.name}, nil)
					}
				},
			},
			{
				Pattern: "program:exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*consistentReturnState)
					source := ctx.Source()
					tokens := ctx.Tokens()
					for _, path := range ctx.CodePathManager().Paths {
						info, ok := st.funcInfos[path]
						if !ok || !info.hasValue || !path.FellThroughReachable {
							continue
						}
						root := path.Origin
						if isES5Constructor(root, source) || isClassConstructorNode(root, source) {
							continue
						}
						rng := headRangeOf(root, tokens)
						ctx.ReportAtRange(rng, "missing_return", map[string]string{"name": describeOriginLower(root, source)}, nil)
					}
				},
			},
		},
	}
}
