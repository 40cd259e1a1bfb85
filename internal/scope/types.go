// Package scope implements the Scope Manager: a lexical scope tree
// built over the CST, with per-scope variable tables, reference
// lists, and hoisting/TDZ-aware resolution.
package scope

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Kind enumerates the lexical scope kinds this package builds.
type Kind string

const (
	Global                   Kind = "global"
	Module                   Kind = "module"
	FunctionScope            Kind = "function"
	Block                    Kind = "block"
	Switch                   Kind = "switch"
	Catch                    Kind = "catch"
	For                      Kind = "for"
	FunctionExpressionName   Kind = "function-expression-name"
	Class                    Kind = "class"
	ClassFieldInitializer    Kind = "class-field-initializer"
	ClassStaticBlock         Kind = "class-static-block"
	With                     Kind = "with"
)

// DefKind enumerates how a Variable came to be declared.
type DefKind string

const (
	DefParameter      DefKind = "parameter"
	DefFunctionName   DefKind = "function-name"
	DefVariable       DefKind = "variable" // var / let / const
	DefClassName      DefKind = "class-name"
	DefImportBinding  DefKind = "import-binding"
	DefCatchClause    DefKind = "catch-clause"
	DefImplicitGlobal DefKind = "implicit-global"
)

// Def is one declaration site contributing to a Variable.
type Def struct {
	Kind        DefKind
	Node        *sitter.Node // the declarator / parameter / name node's containing construct
	NameNode    *sitter.Node // the identifier node itself
	Parent      *sitter.Node // the enclosing statement (declaration, function, catch clause, ...)
	DeclaredVar string       // "var", "let", "const", "" for non-variable defs
}

// Variable is a binding created by one or more Defs within a single
// declaring Scope.
type Variable struct {
	Name        string
	Scope       *Scope
	Defs        []*Def
	Identifiers []*sitter.Node // declaration-site identifier nodes, in order
	References  []*Reference
}

// ReferenceKind classifies how an identifier occurrence uses its
// resolved variable.
type ReferenceKind string

const (
	Read      ReferenceKind = "read"
	Write     ReferenceKind = "write"
	ReadWrite ReferenceKind = "read-write"
)

// Reference is a single identifier occurrence and how it relates to a
// (possibly unresolved) Variable.
type Reference struct {
	Identifier *sitter.Node
	Name       string
	From       *Scope
	Resolved   *Variable // nil if unresolved
	Kind       ReferenceKind
	Init       bool // true only at a declarator's initializer site
	WriteExpr  *sitter.Node
	IsTypeof   bool
	// TDZ is set during resolution when a reference to a let/const/class
	// binding occurs, in the declaring scope itself, lexically before
	// the binding's identifier — the temporal-dead-zone case. It is
	// never set for references resolved through an
	// intervening function scope, since closures may run after the
	// binding is initialized.
	TDZ bool
}

// Scope is one node in the lexical scope tree.
type Scope struct {
	Kind     Kind
	Upper    *Scope
	Children []*Scope
	Block    *sitter.Node

	variables    []*Variable
	variableByID map[string]*Variable
	references   []*Reference
	through      []*Reference

	IsStrict bool
	// FunctionExpressionScope is true for the synthetic scope wrapping
	// a named function expression's own name binding.
	FunctionExpressionScope bool
}

// Variables returns the scope's own variables in declaration order.
func (s *Scope) Variables() []*Variable { return s.variables }

// References returns the scope's own references in source order.
func (s *Scope) References() []*Reference { return s.references }

// Through returns references that could not be resolved within this
// scope and were propagated upward.
func (s *Scope) Through() []*Reference { return s.through }

// VariableScope returns the nearest enclosing function or global/module
// scope — the scope `var` declarations hoist to.
func (s *Scope) VariableScope() *Scope {
	cur := s
	for cur != nil {
		switch cur.Kind {
		case FunctionScope, Global, Module:
			return cur
		}
		cur = cur.Upper
	}
	return s
}

func (s *Scope) addVariable(v *Variable) {
	if s.variableByID == nil {
		s.variableByID = make(map[string]*Variable)
	}
	s.variables = append(s.variables, v)
	s.variableByID[v.Name] = v
	v.Scope = s
}

func (s *Scope) findOwnVariable(name string) *Variable {
	if s.variableByID == nil {
		return nil
	}
	return s.variableByID[name]
}
