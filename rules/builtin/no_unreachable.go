package builtin

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/rule"
)

var unreachableTargetKinds = map[string]bool{
	ast.KindStatementBlock:     true,
	ast.KindBreakStatement:     true,
	ast.KindClassDeclaration:   true,
	ast.KindContinueStmt:       true,
	ast.KindDebuggerStmt:       true,
	ast.KindDoStatement:        true,
	ast.KindExpressionStmt:     true,
	ast.KindForInStatement:     true,
	ast.KindForStatement:       true,
	ast.KindIfStatement:        true,
	ast.KindImportStatement:    true,
	ast.KindLabeledStmt:        true,
	ast.KindReturnStatement:    true,
	ast.KindSwitchStatement:    true,
	ast.KindThrowStatement:     true,
	ast.KindTryStatement:       true,
	ast.KindWhileStatement:     true,
	ast.KindWithStatement:      true,
	ast.KindExportStatement:    true,
	ast.KindLexicalDeclaration: true,
}

// isUnreachableTargetNode reports whether n is a statement kind whose
// unreachability is worth flagging. A variable_declaration only counts
// when at least one of its declarators has an initializer — an
// uninitialized `var x;` is hoisted and produces no observable effect
// if skipped.
func isUnreachableTargetNode(n *sitter.Node) bool {
	if unreachableTargetKinds[ast.KindOf(n)] {
		return true
	}
	if !ast.Is(n, ast.KindVariableDeclaration) {
		return false
	}
	for _, c := range ast.NamedChildren(n) {
		if ast.Is(c, ast.KindComment) {
			continue
		}
		if ast.Field(c, "value") != nil {
			return true
		}
	}
	return false
}

func hasStaticModifier(n *sitter.Node, source []byte) bool {
	for _, c := range ast.Children(n) {
		if c != nil && ast.Text(c, source) == "static" {
			return true
		}
	}
	return false
}

// consecutiveRange is a run of maybe-unreachable nodes with nothing
// but whitespace/a single token between them, reported as one
// violation instead of one per node.
type consecutiveRange struct {
	start, end *sitter.Node
}

func (r *consecutiveRange) contains(n *sitter.Node) bool {
	return int(n.EndByte()) <= int(r.end.EndByte())
}

func (r *consecutiveRange) isConsecutive(n *sitter.Node, tokens *ast.Tokens) bool {
	before := tokens.TokenBefore(n)
	return before != nil && r.contains(before)
}

func (r *consecutiveRange) rng() ast.Range {
	start, end := ast.RangeOf(r.start), ast.RangeOf(r.end)
	return ast.Range{
		StartByte: start.StartByte,
		EndByte:   end.EndByte,
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

type consecutiveRanges struct {
	items []*consecutiveRange
}

func (rs *consecutiveRanges) add(n *sitter.Node, tokens *ast.Tokens) {
	if len(rs.items) == 0 {
		rs.items = append(rs.items, &consecutiveRange{start: n, end: n})
		return
	}
	last := rs.items[len(rs.items)-1]
	if last.contains(n) {
		return
	}
	if last.isConsecutive(n, tokens) {
		last.end = n
		return
	}
	rs.items = append(rs.items, &consecutiveRange{start: n, end: n})
}

type noUnreachableState struct {
	constructorHasSuper []bool
	ranges              *consecutiveRanges
}

// noUnreachableRule flags code after a return/throw/break/continue (or
// any other statement the path analysis marks unreachable), merging
// adjacent unreachable statements into a single reported range.
// Includes a special case for a derived class's field initializers:
// they run before `super()`, so a constructor missing its super call
// makes every instance field on the class unreachable too.
func noUnreachableRule() *rule.Descriptor {
	return &rule.Descriptor{
		Name:     "no-unreachable",
		Language: "javascript",
		Messages: map[string]string{
			"unreachable_code": "Unreachable code.",
		},
		State: rule.StateInit{
			PerFileRun: func(any) any {
				return &noUnreachableState{ranges: &consecutiveRanges{}}
			},
		},
		Listeners: []rule.Listener{
			{
				Pattern: ast.KindMethodDefinition,
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*noUnreachableState)
					if isClassConstructorNode(ctx.Node(), ctx.Source()) {
						st.constructorHasSuper = append(st.constructorHasSuper, false)
					}
				},
			},
			{
				Pattern: `(call_expression function: (super)) @c`,
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*noUnreachableState)
					if n := len(st.constructorHasSuper); n > 0 {
						st.constructorHasSuper[n-1] = true
					}
				},
			},
			{
				Pattern: ast.KindMethodDefinition + ":exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*noUnreachableState)
					node, source := ctx.Node(), ctx.Source()
					if !isClassConstructorNode(node, source) {
						return
					}
					n := len(st.constructorHasSuper)
					hasSuper := st.constructorHasSuper[n-1]
					st.constructorHasSuper = st.constructorHasSuper[:n-1]
					if hasSuper {
						return
					}
					classBody := ast.Parent(node)
					classNode := ast.Parent(classBody)
					if classNode == nil || !hasClassHeritage(classNode) {
						return
					}
					tokens := ctx.Tokens()
					for _, field := range ast.NamedChildren(classBody) {
						if !ast.IsAny(field, ast.KindFieldDefinition, ast.KindPublicFieldDef) {
							continue
						}
						if hasStaticModifier(field, source) {
							continue
						}
						st.ranges.add(field, tokens)
						if after := tokens.TokenAfter(field); after != nil {
							st.ranges.add(after, tokens)
						}
					}
				},
			},
			{
				Pattern: "program:exit",
				Handle: func(ctx *rule.Context, _ rule.Captures) {
					st := ctx.State().(*noUnreachableState)
					reachable := map[int]bool{}
					maybeUnreachable := map[int]*sitter.Node{}
					ctx.CodePathManager().TraverseAllSegments(func(_ *codepath.CodePath, seg *codepath.Segment, _ bool) {
						for _, ev := range seg.Nodes {
							if ev.When != codepath.Enter || !isUnreachableTargetNode(ev.Node) {
								continue
							}
							key := int(ev.Node.StartByte())
							if seg.Reachable {
								reachable[key] = true
							} else {
								maybeUnreachable[key] = ev.Node
							}
						}
					})
					var nodes []*sitter.Node
					for key, node := range maybeUnreachable {
						if !reachable[key] {
							nodes = append(nodes, node)
						}
					}
					sort.Slice(nodes, func(i, j int) bool {
						return nodes[i].StartByte() < nodes[j].StartByte()
					})
					tokens := ctx.Tokens()
					for _, node := range nodes {
						st.ranges.add(node, tokens)
					}
					for _, r := range st.ranges.items {
						ctx.ReportAtRange(r.rng(), "unreachable_code", nil, nil)
					}
				},
			},
		},
	}
}
