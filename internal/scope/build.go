package scope

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
)

// builder performs the single recursive descent that creates the scope
// tree and collects every Def and Reference. Resolution runs
// afterward in resolve.go, once every
// scope's variable table is complete — a forward reference to a
// later-declared `var` must still resolve.
type builder struct {
	mgr    *Manager
	source []byte
}

func (b *builder) text(n *sitter.Node) string { return ast.Text(n, b.source) }

// visit walks node within scope, descending into child scopes for
// constructs that introduce one.
func (b *builder) visit(scope *Scope, node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Type() {
	case ast.KindVariableDeclaration, ast.KindLexicalDeclaration:
		b.visitVariableDeclaration(scope, node)
		return

	case ast.KindFunctionDeclaration, ast.KindGeneratorFuncDecl:
		b.defineFunctionName(scope, node)
		b.visitFunctionLike(scope, node, FunctionScope)
		return

	case ast.KindFunction, ast.KindGeneratorFunc:
		b.visitNamedFunctionExpression(scope, node)
		return

	case ast.KindArrowFunction:
		b.visitFunctionLike(scope, node, FunctionScope)
		return

	case ast.KindMethodDefinition:
		// name is a property key, not a variable; only params+body scope.
		b.visitFunctionLike(scope, node, FunctionScope)
		return

	case ast.KindClassStaticBlock:
		child := b.mgr.newScope(scope, ClassStaticBlock, node)
		child.IsStrict = true
		b.visitChildren(child, node)
		return

	case ast.KindFieldDefinition, ast.KindPublicFieldDef:
		b.visitFieldDefinition(scope, node)
		return

	case ast.KindClassDeclaration, ast.KindClass:
		b.visitClass(scope, node)
		return

	case ast.KindCatchClause:
		b.visitCatchClause(scope, node)
		return

	case ast.KindForStatement, ast.KindForInStatement:
		b.visitFor(scope, node)
		return

	case ast.KindSwitchStatement:
		b.visitSwitch(scope, node)
		return

	case ast.KindWithStatement:
		child := b.mgr.newScope(scope, With, node)
		b.visitChildren(child, node)
		return

	case ast.KindStatementBlock:
		// Function bodies are absorbed into the function's own scope by
		// visitFunctionLike, which visits the body's children directly
		// rather than recursing through visit. Any statement_block we
		// reach here is a bare/if/while/loop block and gets its own
		// scope.
		child := b.mgr.newScope(scope, Block, node)
		b.visitChildren(child, node)
		return

	case ast.KindImportStatement:
		b.visitImport(scope, node)
		return

	case ast.KindIdentifier, ast.KindPropertyIdentifier, "shorthand_property_identifier":
		b.maybeReference(scope, node)
		return
	}

	b.visitChildren(scope, node)
}

func (b *builder) visitChildren(scope *Scope, node *sitter.Node) {
	for _, c := range ast.Children(node) {
		b.visit(scope, c)
	}
}

// --- declarations -----------------------------------------------------

func (b *builder) visitVariableDeclaration(scope *Scope, decl *sitter.Node) {
	kindTok := "var"
	for _, c := range ast.Children(decl) {
		if c != nil && !c.IsNamed() {
			switch c.Type() {
			case "var", "let", "const":
				kindTok = c.Type()
			}
		}
	}
	for _, child := range ast.NamedChildren(decl) {
		if !ast.Is(child, ast.KindVariableDeclarator) {
			continue
		}
		name := ast.Field(child, "name")
		declScope := scope
		if kindTok == "var" {
			declScope = scope.VariableScope()
		}
		b.bindPattern(declScope, name, child, decl, DefVariable, kindTok)

		if value := ast.Field(child, "value"); value != nil {
			b.visit(scope, value)
			for _, id := range collectBindingIdentifiers(name) {
				declScope.references = append(declScope.references, &Reference{
					Identifier: id, Name: b.text(id), From: declScope, Kind: Write, Init: true,
				})
			}
		}
	}
}

func (b *builder) bindPattern(declScope, pattern, declarator, stmt *sitter.Node, kind DefKind, declaredVar string) {
	for _, id := range collectBindingIdentifiers(pattern) {
		v := declScope.findOwnVariable(b.text(id))
		if v == nil {
			v = &Variable{Name: b.text(id)}
			declScope.addVariable(v)
		}
		v.Identifiers = append(v.Identifiers, id)
		v.Defs = append(v.Defs, &Def{
			Kind: kind, Node: declarator, NameNode: id, Parent: stmt, DeclaredVar: declaredVar,
		})
	}
}

// collectBindingIdentifiers flattens a binding pattern (identifier,
// object/array destructuring, defaults, rest) into its leaf identifier
// nodes.
func collectBindingIdentifiers(pattern *sitter.Node) []*sitter.Node {
	if pattern == nil {
		return nil
	}
	switch pattern.Type() {
	case ast.KindIdentifier, "shorthand_property_identifier_pattern":
		return []*sitter.Node{pattern}
	case ast.KindAssignmentPattern:
		return collectBindingIdentifiers(ast.Field(pattern, "left"))
	case ast.KindRestPattern:
		if pattern.NamedChildCount() > 0 {
			return collectBindingIdentifiers(pattern.NamedChild(0))
		}
		return nil
	case ast.KindObjectPattern:
		var out []*sitter.Node
		for _, c := range ast.NamedChildren(pattern) {
			switch c.Type() {
			case "shorthand_property_identifier_pattern":
				out = append(out, c)
			case "pair_pattern":
				out = append(out, collectBindingIdentifiers(ast.Field(c, "value"))...)
			case "object_assignment_pattern":
				out = append(out, collectBindingIdentifiers(ast.Field(c, "left"))...)
			case ast.KindRestPattern:
				out = append(out, collectBindingIdentifiers(c)...)
			default:
				out = append(out, collectBindingIdentifiers(c)...)
			}
		}
		return out
	case ast.KindArrayPattern:
		var out []*sitter.Node
		for _, c := range ast.NamedChildren(pattern) {
			out = append(out, collectBindingIdentifiers(c)...)
		}
		return out
	default:
		return nil
	}
}

func (b *builder) defineFunctionName(scope *Scope, fn *sitter.Node) {
	name := ast.Field(fn, "name")
	if name == nil {
		return
	}
	v := scope.findOwnVariable(b.text(name))
	if v == nil {
		v = &Variable{Name: b.text(name)}
		scope.addVariable(v)
	}
	v.Identifiers = append(v.Identifiers, name)
	v.Defs = append(v.Defs, &Def{Kind: DefFunctionName, Node: fn, NameNode: name, Parent: fn})
}

func (b *builder) visitNamedFunctionExpression(scope *Scope, fn *sitter.Node) {
	name := ast.Field(fn, "name")
	if name == nil {
		b.visitFunctionLike(scope, fn, FunctionScope)
		return
	}
	wrapper := b.mgr.newScope(scope, FunctionExpressionName, fn)
	wrapper.FunctionExpressionScope = true
	v := &Variable{Name: b.text(name)}
	wrapper.addVariable(v)
	v.Identifiers = append(v.Identifiers, name)
	v.Defs = append(v.Defs, &Def{Kind: DefFunctionName, Node: fn, NameNode: name, Parent: fn})
	b.visitFunctionLike(wrapper, fn, FunctionScope)
}

// visitFunctionLike creates the function's own scope (covering its
// parameter list and body — the body's statement_block is not given a
// further nested Block scope), collects parameter bindings, and
// descends.
func (b *builder) visitFunctionLike(scope *Scope, fn *sitter.Node, kind Kind) {
	fnScope := b.mgr.newScope(scope, kind, fn)
	if params := ast.Field(fn, "parameters"); params != nil {
		if ast.Is(params, ast.KindIdentifier) {
			// Arrow function with a bare, unparenthesized single param:
			// `x => ...`. The grammar still reports it under the
			// "parameters" field, just not wrapped in formal_parameters.
			b.bindPattern(fnScope, params, params, fn, DefParameter, "")
		} else {
			for _, p := range ast.NamedChildren(params) {
				switch p.Type() {
				case ast.KindAssignmentPattern:
					b.bindPattern(fnScope, ast.Field(p, "left"), p, fn, DefParameter, "")
					if val := ast.Field(p, "right"); val != nil {
						b.visit(fnScope, val)
					}
				default:
					b.bindPattern(fnScope, p, p, fn, DefParameter, "")
				}
			}
		}
	}
	if body := ast.Field(fn, "body"); body != nil {
		if ast.Is(body, ast.KindStatementBlock) {
			b.visitChildren(fnScope, body)
		} else {
			// Concise arrow-function expression body.
			b.visit(fnScope, body)
		}
	}
}

func (b *builder) visitFieldDefinition(scope *Scope, field *sitter.Node) {
	value := ast.Field(field, "value")
	if value == nil {
		return
	}
	child := b.mgr.newScope(scope, ClassFieldInitializer, field)
	child.IsStrict = true
	b.visit(child, value)
}

func (b *builder) visitClass(scope *Scope, cls *sitter.Node) {
	if ast.Is(cls, ast.KindClassDeclaration) {
		if name := ast.Field(cls, "name"); name != nil {
			v := scope.findOwnVariable(b.text(name))
			if v == nil {
				v = &Variable{Name: b.text(name)}
				scope.addVariable(v)
			}
			v.Identifiers = append(v.Identifiers, name)
			v.Defs = append(v.Defs, &Def{Kind: DefClassName, Node: cls, NameNode: name, Parent: cls})
		}
	}
	classScope := b.mgr.newScope(scope, Class, cls)
	classScope.IsStrict = true
	if super := ast.Field(cls, "superclass"); super != nil {
		b.visit(scope, super)
	}
	if body := ast.Field(cls, "body"); body != nil {
		b.visitChildren(classScope, body)
	}
}

func (b *builder) visitCatchClause(scope *Scope, clause *sitter.Node) {
	catchScope := b.mgr.newScope(scope, Catch, clause)
	if param := ast.Field(clause, "parameter"); param != nil {
		b.bindPattern(catchScope, param, clause, clause, DefCatchClause, "")
	}
	if body := ast.Field(clause, "body"); body != nil {
		b.visitChildren(catchScope, body)
	}
}

func (b *builder) visitFor(scope *Scope, stmt *sitter.Node) {
	forScope := b.mgr.newScope(scope, For, stmt)
	for _, c := range ast.Children(stmt) {
		if c != nil && ast.Is(c, ast.KindStatementBlock) {
			// The loop body gets its own nested block scope, as any
			// other block statement would.
			b.visit(forScope, c)
			continue
		}
		if c != nil && (ast.Is(c, ast.KindVariableDeclaration) || ast.Is(c, ast.KindLexicalDeclaration)) {
			b.visitVariableDeclaration(forScope, c)
			continue
		}
		if c == stmt {
			continue
		}
		b.visit(forScope, c)
	}
}

func (b *builder) visitSwitch(scope *Scope, stmt *sitter.Node) {
	switchScope := b.mgr.newScope(scope, Switch, stmt)
	if disc := ast.Field(stmt, "value"); disc != nil {
		b.visit(scope, disc)
	}
	if body := ast.Field(stmt, "body"); body != nil {
		b.visitChildren(switchScope, body)
	}
}

func (b *builder) visitImport(scope *Scope, stmt *sitter.Node) {
	module := b.mgr.Global
	for _, c := range ast.Children(stmt) {
		if c == nil {
			continue
		}
		switch c.Type() {
		case "identifier":
			b.defineImportBinding(module, c, stmt)
		case "namespace_import", "import_specifier", "named_imports":
			for _, id := range collectImportIdentifiers(c) {
				b.defineImportBinding(module, id, stmt)
			}
		}
	}
}

func collectImportIdentifiers(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier":
		return []*sitter.Node{n}
	case "import_specifier":
		if alias := ast.Field(n, "alias"); alias != nil {
			return []*sitter.Node{alias}
		}
		if name := ast.Field(n, "name"); name != nil {
			return []*sitter.Node{name}
		}
		return nil
	default:
		var out []*sitter.Node
		for _, c := range ast.NamedChildren(n) {
			out = append(out, collectImportIdentifiers(c)...)
		}
		return out
	}
}

func (b *builder) defineImportBinding(scope *Scope, id, stmt *sitter.Node) {
	v := scope.findOwnVariable(b.text(id))
	if v == nil {
		v = &Variable{Name: b.text(id)}
		scope.addVariable(v)
	}
	v.Identifiers = append(v.Identifiers, id)
	v.Defs = append(v.Defs, &Def{Kind: DefImportBinding, Node: stmt, NameNode: id, Parent: stmt})
}

// --- references ---------------------------------------------------------

func (b *builder) maybeReference(scope *Scope, id *sitter.Node) {
	parent := ast.Parent(id)
	if parent == nil {
		return
	}
	switch parent.Type() {
	case ast.KindVariableDeclarator, ast.KindFormalParameters, ast.KindCatchClause,
		ast.KindFunctionDeclaration, ast.KindFunction, ast.KindGeneratorFuncDecl, ast.KindGeneratorFunc,
		ast.KindClassDeclaration, ast.KindClass, ast.KindAssignmentPattern, ast.KindRestPattern,
		ast.KindObjectPattern, ast.KindArrayPattern, "import_specifier", "namespace_import",
		"shorthand_property_identifier_pattern":
		// Binding-site occurrence; handled by the declaration visitors.
		if !isReadPositionWithinDeclaration(id, parent) {
			return
		}
	case ast.KindMemberExpression:
		if ast.Same(ast.Field(parent, "property"), id) {
			return // property_identifier isn't a scope reference
		}
	}
	if id.Type() == ast.KindPropertyIdentifier {
		// Any property_identifier reaching here (not filtered above) is
		// a shorthand object-literal key's value companion, handled at
		// the pair; bare property identifiers are never variable refs.
		return
	}

	kind := Read
	isTypeof := false
	writeExpr := parent
	switch parent.Type() {
	case ast.KindAssignmentExpr:
		if ast.Same(ast.Field(parent, "left"), id) {
			kind = Write
		}
	case ast.KindAugmentedAssignExpr:
		if ast.Same(ast.Field(parent, "left"), id) {
			kind = ReadWrite
		}
	case ast.KindUpdateExpression:
		kind = ReadWrite
	case ast.KindUnaryExpression:
		if op := ast.Field(parent, "operator"); op != nil && b.text(op) == "typeof" {
			isTypeof = true
		}
	}
	scope.references = append(scope.references, &Reference{
		Identifier: id, Name: b.text(id), From: scope, Kind: kind, WriteExpr: writeExpr, IsTypeof: isTypeof,
	})
}

// isReadPositionWithinDeclaration reports the rare case where an
// identifier directly under a binding-shaped parent is actually used
// as a value: the default-value side of an assignment_pattern
// (`y` in `function f(x = y)`) or a variable_declarator's value.
func isReadPositionWithinDeclaration(id, parent *sitter.Node) bool {
	switch parent.Type() {
	case ast.KindAssignmentPattern:
		return ast.Same(ast.Field(parent, "right"), id)
	case ast.KindVariableDeclarator:
		return ast.Same(ast.Field(parent, "value"), id)
	default:
		return false
	}
}
