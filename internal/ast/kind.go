// Package ast provides a language-neutral accessor layer over the
// Tree-sitter JavaScript CST: node-kind tests, field lookups,
// static-value extraction, and token/comment iteration. Rules, the
// Scope Manager, and the Code-Path Analyzer all go through this
// package instead of touching *sitter.Node directly.
package ast

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node kinds used pervasively across the analyzers. Kept as string
// constants (not an enum) because sitter.Node.Type() returns strings
// and a lookup table at the boundary is cheaper to maintain than a
// parallel enum that must track the grammar.
const (
	KindProgram              = "program"
	KindIdentifier           = "identifier"
	KindPropertyIdentifier   = "property_identifier"
	KindPrivatePropertyID    = "private_property_identifier"
	KindStatementIdentifier  = "statement_identifier"
	KindNumber               = "number"
	KindString               = "string"
	KindRegex                = "regex"
	KindTemplateString       = "template_string"
	KindTemplateSubstitution = "template_substitution"
	KindTrue                 = "true"
	KindFalse                = "false"
	KindNull                 = "null"
	KindUndefined            = "undefined"

	KindMemberExpression    = "member_expression"
	KindSubscriptExpression = "subscript_expression"
	KindCallExpression      = "call_expression"
	KindNewExpression       = "new_expression"
	KindAssignmentExpr      = "assignment_expression"
	KindAugmentedAssignExpr = "augmented_assignment_expression"
	KindBinaryExpression    = "binary_expression"
	KindUnaryExpression     = "unary_expression"
	KindUpdateExpression    = "update_expression"
	KindTernaryExpression   = "ternary_expression"
	KindSequenceExpression  = "sequence_expression"
	KindParenthesizedExpr   = "parenthesized_expression"
	KindAwaitExpression     = "await_expression"
	KindYieldExpression     = "yield_expression"
	KindSpreadElement       = "spread_element"
	KindThis                = "this"
	KindSuper               = "super"
	KindMetaProperty        = "meta_property"

	KindVariableDeclaration = "variable_declaration"
	KindLexicalDeclaration  = "lexical_declaration"
	KindVariableDeclarator  = "variable_declarator"
	KindFunctionDeclaration = "function_declaration"
	KindFunction            = "function"
	KindGeneratorFuncDecl   = "generator_function_declaration"
	KindGeneratorFunc       = "generator_function"
	KindArrowFunction       = "arrow_function"
	KindClassDeclaration    = "class_declaration"
	KindClass               = "class"
	KindMethodDefinition    = "method_definition"
	KindClassBody           = "class_body"
	KindFieldDefinition     = "field_definition"
	KindPublicFieldDef      = "public_field_definition"
	KindClassStaticBlock    = "class_static_block"
	KindFormalParameters    = "formal_parameters"
	KindRestPattern         = "rest_pattern"
	KindAssignmentPattern   = "assignment_pattern"
	KindObjectPattern       = "object_pattern"
	KindArrayPattern        = "array_pattern"
	KindCatchClause         = "catch_clause"

	KindStatementBlock  = "statement_block"
	KindIfStatement     = "if_statement"
	KindElseClause      = "else_clause"
	KindSwitchStatement = "switch_statement"
	KindSwitchBody      = "switch_body"
	KindSwitchCase      = "switch_case"
	KindSwitchDefault   = "switch_default"
	KindForStatement    = "for_statement"
	KindForInStatement  = "for_in_statement"
	KindWhileStatement  = "while_statement"
	KindDoStatement     = "do_statement"
	KindTryStatement    = "try_statement"
	KindFinallyClause   = "finally_clause"
	KindWithStatement   = "with_statement"
	KindBreakStatement  = "break_statement"
	KindContinueStmt    = "continue_statement"
	KindReturnStatement = "return_statement"
	KindThrowStatement  = "throw_statement"
	KindLabeledStmt     = "labeled_statement"
	KindEmptyStatement  = "empty_statement"
	KindDebuggerStmt    = "debugger_statement"
	KindExpressionStmt  = "expression_statement"

	KindImportStatement = "import_statement"
	KindExportStatement = "export_statement"

	KindComment = "comment"
	KindObject  = "object"
	KindArray   = "array"
	KindPair    = "pair"
)

// KindOf returns the grammar's node-kind tag, or "" for a nil node.
func KindOf(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Type()
}

// Is reports whether n has the given kind.
func Is(n *sitter.Node, kind string) bool {
	return KindOf(n) == kind
}

// IsAny reports whether n has any of the given kinds.
func IsAny(n *sitter.Node, kinds ...string) bool {
	k := KindOf(n)
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// Field returns the named child field, or nil if absent. Mirrors
// sitter.Node.ChildByFieldName but centralizes the nil-node check so
// callers never need a guard before calling it.
func Field(n *sitter.Node, name string) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

// Parent returns n's parent, or nil for the root / a nil node.
func Parent(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	return n.Parent()
}

// NamedChildren returns n's named children in source order.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// Children returns all of n's children (named and anonymous) in
// source order.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := int(n.ChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.Child(i))
	}
	return out
}

// Same reports whether a and b denote the same CST node. Repeated
// accessor calls (ChildByFieldName, Child, Parent, ...) can return
// distinct *sitter.Node values for the same underlying node, so field
// comparisons against a traversal node must go through this instead of
// Go's pointer equality.
func Same(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// Text returns the node's source text.
func Text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// Range describes a node's byte and line/column extents, 1-based for
// lines and columns, byte-accurate for tooling that needs exact
// source offsets.
type Range struct {
	StartByte, EndByte             int
	StartLine, StartCol            int
	EndLine, EndCol                int
}

// RangeOf converts a node's position into the public Range shape.
func RangeOf(n *sitter.Node) Range {
	if n == nil {
		return Range{}
	}
	sp, ep := n.StartPoint(), n.EndPoint()
	return Range{
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
		StartLine: int(sp.Row) + 1,
		StartCol:  int(sp.Column) + 1,
		EndLine:   int(ep.Row) + 1,
		EndCol:    int(ep.Column) + 1,
	}
}

// SkipParentheses follows the inner expression of each
// parenthesized_expression until it reaches a non-parenthesized node.
func SkipParentheses(n *sitter.Node) *sitter.Node {
	for n != nil && Is(n, KindParenthesizedExpr) {
		inner := Field(n, "expression")
		if inner == nil {
			// Older grammars expose the sole named child instead of a field.
			if n.NamedChildCount() == 0 {
				break
			}
			inner = n.NamedChild(0)
		}
		if inner == nil {
			break
		}
		n = inner
	}
	return n
}

// IsChainExpression reports whether n is a member/subscript/call node
// that participates in an optional chain (`?.`).
func IsChainExpression(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case KindMemberExpression, KindSubscriptExpression, KindCallExpression:
	default:
		return false
	}
	// go-tree-sitter's javascript grammar marks the optional-chaining
	// operator as an anonymous "?." token among n's children.
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Type() == "?." {
			return true
		}
	}
	return false
}

// MethodKind enumerates the shapes method_definition can take.
type MethodKind string

const (
	MethodOrdinary    MethodKind = "method"
	MethodConstructor MethodKind = "constructor"
	MethodGetter      MethodKind = "get"
	MethodSetter      MethodKind = "set"
	MethodGenerator   MethodKind = "generator-method"
)

// MethodDefinitionKind classifies a method_definition node as an
// ordinary method, constructor, getter, setter, or generator.
func MethodDefinitionKind(n *sitter.Node, source []byte) MethodKind {
	if n == nil || !Is(n, KindMethodDefinition) {
		return MethodOrdinary
	}
	isGenerator := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && c.Content(source) == "*" {
			isGenerator = true
		}
	}
	name := Field(n, "name")
	if name != nil && Text(name, source) == "constructor" && !isGenerator && isInClassBody(n) {
		return MethodConstructor
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || c.IsNamed() {
			continue
		}
		switch c.Content(source) {
		case "get":
			return MethodGetter
		case "set":
			return MethodSetter
		}
	}
	if isGenerator {
		return MethodGenerator
	}
	return MethodOrdinary
}

// isInClassBody reports whether a method_definition's enclosing
// object is a class body, as opposed to an object literal (both
// parse to method_definition nodes in this grammar; only the former
// can hold a real constructor).
func isInClassBody(n *sitter.Node) bool {
	parent := Parent(n)
	return parent != nil && Is(parent, KindClassBody)
}
