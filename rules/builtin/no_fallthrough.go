package builtin

import (
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/rule"
)

var defaultFallthroughCommentPattern = regexp.MustCompile(`(?i)falls?\s?through`)

type noFallthroughConfig struct {
	commentPattern  *regexp.Regexp
	allowEmptyCase  bool
}

type noFallthroughState struct {
	potential map[int]*sitter.Node // keyed by StartByte
}

// switchCaseBody returns a switch_case/switch_default's body
// statements, excluding the case's own `value` expression.
func switchCaseBody(n *sitter.Node) []*sitter.Node {
	children := ast.NamedChildren(n)
	value := ast.Field(n, "value")
	if value == nil {
		return children
	}
	out := make([]*sitter.Node, 0, len(children))
	for _, c := range children {
		if ast.Same(c, value) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func isLastNonCommentNamedChild(n, parent *sitter.Node) bool {
	children := ast.NamedChildren(parent)
	for i := len(children) - 1; i >= 0; i-- {
		if ast.Is(children[i], ast.KindComment) {
			continue
		}
		return ast.Same(children[i], n)
	}
	return false
}

func nextSwitchCaseSibling(n *sitter.Node) *sitter.Node {
	parent := ast.Parent(n)
	children := ast.NamedChildren(parent)
	for i, c := range children {
		if !ast.Same(c, n) {
			continue
		}
		for j := i + 1; j < len(children); j++ {
			if ast.IsAny(children[j], ast.KindSwitchCase, ast.KindSwitchDefault) {
				return children[j]
			}
		}
		return nil
	}
	return nil
}

func isFallthroughComment(text string, pattern *regexp.Regexp) bool {
	return pattern.MatchString(text)
}

func hasFallthroughComment(caseNode, nextCaseNode *sitter.Node, tokens *ast.Tokens, source []byte, pattern *regexp.Regexp) bool {
	body := switchCaseBody(caseNode)
	if len(body) == 1 && ast.Is(body[0], ast.KindStatementBlock) {
		closeBrace := tokens.LastToken(body[0])
		if closeBrace != nil {
			comments := tokens.CommentsBefore(closeBrace)
			if len(comments) > 0 && isFallthroughComment(ast.Text(comments[len(comments)-1], source), pattern) {
				return true
			}
		}
	}
	if nextCaseNode == nil {
		return false
	}
	comments := tokens.CommentsBefore(nextCaseNode)
	if len(comments) == 0 {
		return false
	}
	return isFallthroughComment(ast.Text(comments[len(comments)-1], source), pattern)
}

// noFallthroughRule flags a switch_case whose body can run off the end
// into the next case without an intervening break/return/throw. The
// commentPattern and allowEmptyCase options and the
// trailing-comment-inside-a-block exemption are supported; there is no
// directive-comment concept to exclude.
func noFallthroughRule() *rule.Descriptor {
	return &rule.Descriptor{
		Name:     "no-fallthrough",
		Language: "javascript",
		Messages: map[string]string{
			"case":    "Expected a 'break' statement before 'case'.",
			"default": "Expected a 'break' statement before 'default'.",
		},
		State: rule.StateInit{
			PerConfig: func(options map[string]any) (any, error) {
				cfg := &noFallthroughConfig{
					commentPattern: defaultFallthroughCommentPattern,
					allowEmptyCase: boolOption(options, "allowEmptyCase"),
				}
				if raw, ok := options["commentPattern"].(string); ok && raw != "" {
					compiled, err := regexp.Compile(raw)
					if err != nil {
						return nil, err
					}
					cfg.commentPattern = compiled
				}
				return cfg, nil
			},
			PerFileRun: func(any) any {
				return &noFallthroughState{potential: map[int]*sitter.Node{}}
			},
		},
		Listeners: []rule.Listener{
			{
				Pattern: ast.KindSwitchCase,
				Handle:  collectPotentialFallthrough,
			},
			{
				Pattern: ast.KindSwitchDefault,
				Handle:  collectPotentialFallthrough,
			},
			{
				Pattern: "program:exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*noFallthroughState)
					cfg := ctx.Config().(*noFallthroughConfig)
					if len(st.potential) == 0 {
						return
					}
					tokens := ctx.Tokens()
					source := ctx.Source()
					reachable := map[int]bool{}
					ctx.CodePathManager().TraverseAllSegments(func(_ *codepath.CodePath, seg *codepath.Segment, _ bool) {
						if !seg.Reachable {
							return
						}
						for _, ev := range seg.Nodes {
							if ev.When == codepath.Exit && ast.IsAny(ev.Node, ast.KindSwitchCase, ast.KindSwitchDefault) {
								reachable[int(ev.Node.StartByte())] = true
							}
						}
					})
					for startByte, node := range st.potential {
						if !reachable[startByte] {
							continue
						}
						next := nextSwitchCaseSibling(node)
						if next == nil {
							continue
						}
						if hasFallthroughComment(node, next, tokens, source, cfg.commentPattern) {
							continue
						}
						messageID := "case"
						if ast.Is(next, ast.KindSwitchDefault) {
							messageID = "default"
						}
						ctx.Report(next, messageID, nil, nil)
					}
				},
			},
		},
	}
}

func collectPotentialFallthrough(ctx *rule.Context, _ rule.Captures) {
	cfg := ctx.Config().(*noFallthroughConfig)
	st := ctx.State().(*noFallthroughState)
	node := ctx.Node()
	parent := ast.Parent(node)
	if isLastNonCommentNamedChild(node, parent) {
		return
	}
	body := switchCaseBody(node)
	if len(body) == 0 {
		tokens := ctx.Tokens()
		next := tokens.TokenAfter(node)
		blankGap := next != nil && ast.RangeOf(next).StartLine > ast.RangeOf(node).EndLine+1
		if cfg.allowEmptyCase || !blankGap {
			return
		}
	}
	if len(body) > 0 {
		last := body[len(body)-1]
		if ast.IsAny(last, ast.KindBreakStatement, ast.KindReturnStatement, ast.KindThrowStatement) {
			return
		}
	}
	st.potential[int(node.StartByte())] = node
}
