package scope

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Options configures scope construction: the program's source type
// and its pre-declared global bindings.
type Options struct {
	// SourceType selects whether the program root is a Module scope
	// (import/export bindings, strict by default) or a Global scope.
	SourceType string // "module" or "script"
	// Globals pre-declares implicit-global bindings (environment globals
	// such as `window`, `require`, `process`) so references to them
	// resolve instead of being reported as undeclared.
	Globals []string
}

// Manager is the result of analyzing one file: the root Scope plus
// every scope created, in pre-order creation order.
type Manager struct {
	Global *Scope
	scopes []*Scope
}

// Scopes returns every scope in the tree, in creation order.
func (m *Manager) Scopes() []*Scope { return m.scopes }

// Analyze builds the full scope tree for root (a "program" node),
// collects every declaration and reference, and resolves references
// to their declaring Variable where possible.
func Analyze(root *sitter.Node, source []byte, opts Options) *Manager {
	m := &Manager{}
	rootKind := Global
	if opts.SourceType == "module" {
		rootKind = Module
	}
	global := m.newScope(nil, rootKind, root)
	global.IsStrict = rootKind == Module
	for _, g := range opts.Globals {
		v := &Variable{Name: g}
		global.addVariable(v)
		v.Defs = append(v.Defs, &Def{Kind: DefImplicitGlobal})
	}

	b := &builder{mgr: m, source: source}
	b.visit(global, root)

	resolve(m)
	return m
}

func (m *Manager) newScope(upper *Scope, kind Kind, block *sitter.Node) *Scope {
	s := &Scope{Kind: kind, Upper: upper, Block: block}
	if upper != nil {
		upper.Children = append(upper.Children, s)
		s.IsStrict = upper.IsStrict
	}
	m.scopes = append(m.scopes, s)
	return s
}

// ScopeOf returns the innermost scope whose block contains node: the
// one with the smallest enclosing block. When two scopes share the same
// block, the one created first wins.
func (m *Manager) ScopeOf(node *sitter.Node) *Scope {
	if node == nil {
		return m.Global
	}
	start, end := node.StartByte(), node.EndByte()
	var best *Scope
	for _, s := range m.scopes {
		if s.Block == nil {
			continue
		}
		if s.Block.StartByte() <= start && end <= s.Block.EndByte() {
			if best == nil || (s.Block.EndByte()-s.Block.StartByte()) < (best.Block.EndByte()-best.Block.StartByte()) {
				best = s
			}
		}
	}
	if best == nil {
		return m.Global
	}
	return best
}

// DeclaredVariables returns every Variable whose declaration is rooted
// at node — e.g. all bindings introduced by one variable_declaration,
// one function's parameter list, or one catch clause.
func (m *Manager) DeclaredVariables(node *sitter.Node) []*Variable {
	if node == nil {
		return nil
	}
	var out []*Variable
	for _, s := range m.scopes {
		for _, v := range s.variables {
			for _, d := range v.Defs {
				if d.Parent == node || d.Node == node {
					out = append(out, v)
					break
				}
			}
		}
	}
	return out
}
