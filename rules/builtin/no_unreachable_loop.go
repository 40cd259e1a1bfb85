package builtin

import (
	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/rule"
)

var allLoopKinds = map[string]bool{
	ast.KindWhileStatement: true,
	ast.KindDoStatement:    true,
	ast.KindForStatement:   true,
	ast.KindForInStatement: true,
}

// loopIgnoreKind maps the ignore option's loop-type names (including
// "ForOfStatement", which shares this grammar's for_in_statement kind
// with a plain for-in loop) onto the actual node kinds.
func loopIgnoreKind(name string) (string, bool) {
	switch name {
	case "WhileStatement":
		return ast.KindWhileStatement, true
	case "DoWhileStatement":
		return ast.KindDoStatement, true
	case "ForStatement":
		return ast.KindForStatement, true
	case "ForInStatement", "ForOfStatement":
		return ast.KindForInStatement, true
	default:
		return "", false
	}
}

type noUnreachableLoopConfig struct {
	targetKinds map[string]bool
}

// noUnreachableLoopRule flags a loop whose body can never run more
// than once — every `break`/`return`/`throw` on the only path back to
// the top, so the loop construct itself is pointless. Detection walks
// each loop's Segment.LoopNode marker rather than a segment's first
// node event, since that event lands on the segment entered just
// before the loop forks, not the fork itself. A loop can run again iff
// some segment links back into its fork point, i.e. the fork has more
// than the one forward predecessor it started with.
func noUnreachableLoopRule() *rule.Descriptor {
	return &rule.Descriptor{
		Name:     "no-unreachable-loop",
		Language: "javascript",
		Messages: map[string]string{
			"invalid": "Invalid loop. Its body allows only one iteration.",
		},
		State: rule.StateInit{
			PerConfig: func(options map[string]any) (any, error) {
				target := map[string]bool{}
				for k, v := range allLoopKinds {
					target[k] = v
				}
				for _, name := range stringsOption(options, "ignore") {
					if kind, ok := loopIgnoreKind(name); ok {
						delete(target, kind)
					}
				}
				return &noUnreachableLoopConfig{targetKinds: target}, nil
			},
		},
		Listeners: []rule.Listener{
			{
				Pattern: "program:exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					cfg := ctx.Config().(*noUnreachableLoopConfig)
					for _, path := range ctx.CodePathManager().Paths {
						for _, seg := range path.Segments() {
							if seg.LoopNode == nil || !cfg.targetKinds[ast.KindOf(seg.LoopNode)] {
								continue
							}
							if len(seg.PrevSegments) <= 1 {
								ctx.Report(seg.LoopNode, "invalid", nil, nil)
							}
						}
					}
				},
			},
		},
	}
}
