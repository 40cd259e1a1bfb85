package ast

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// GetFunctionNameWithKind describes n (a function/arrow
// function/method_definition/field-definition function value) the way
// a diagnostic message should name it: "function 'foo'", "getter
// 'bar'", "constructor", "arrow function", and so on,
// covering the static/async/private/get/set/generator modifiers a
// rule message needs to report accurately.
func GetFunctionNameWithKind(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}

	if Is(n, KindMethodDefinition) {
		kind := MethodDefinitionKind(n, source)
		if kind == MethodConstructor {
			return "constructor"
		}
		var tokens []string
		if hasModifierToken(n, source, "static") {
			tokens = append(tokens, "static")
		}
		if hasModifierToken(n, source, "async") {
			tokens = append(tokens, "async")
		}
		switch kind {
		case MethodGetter:
			tokens = append(tokens, "getter")
		case MethodSetter:
			tokens = append(tokens, "setter")
		case MethodGenerator:
			tokens = append(tokens, "generator method")
		default:
			tokens = append(tokens, "method")
		}
		if name := namedPropertyText(n, source); name != "" {
			tokens = append(tokens, "'"+name+"'")
		}
		return strings.Join(tokens, " ")
	}

	isObjectLiteralMethod := false
	parent := Parent(n)
	if parent != nil && Is(parent, KindPair) {
		isObjectLiteralMethod = true
	}

	var kindWord string
	switch n.Type() {
	case KindGeneratorFunc, KindGeneratorFuncDecl:
		kindWord = "generator function"
	case KindArrowFunction:
		kindWord = "arrow function"
	default: // KindFunction, KindFunctionDeclaration
		kindWord = "function"
	}
	if isObjectLiteralMethod {
		kindWord = "method"
	}

	var tokens []string
	if !isObjectLiteralMethod && firstChildText(n, source) == "async" {
		tokens = append(tokens, "async")
	}
	tokens = append(tokens, kindWord)

	var name string
	if isObjectLiteralMethod {
		name = namedPropertyText(parent, source)
	} else if n.Type() != KindArrowFunction {
		if nameNode := Field(n, "name"); nameNode != nil {
			name = Text(nameNode, source)
		}
	}
	if name != "" {
		tokens = append(tokens, "'"+name+"'")
	}
	return strings.Join(tokens, " ")
}

// namedPropertyText resolves a method_definition's or pair's property
// name for message text, preferring the raw identifier text over the
// quoted form GetStaticPropertyName would otherwise add escaping for.
func namedPropertyText(n *sitter.Node, source []byte) string {
	sv := GetStaticPropertyName(n, source)
	if sv.Present {
		return sv.String
	}
	if Is(n, KindMethodDefinition) {
		if name := Field(n, "name"); name != nil {
			return Text(name, source)
		}
	}
	return ""
}

func hasModifierToken(n *sitter.Node, source []byte, word string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c != nil && !c.IsNamed() && Text(c, source) == word {
			return true
		}
	}
	return false
}

func firstChildText(n *sitter.Node, source []byte) string {
	if n == nil || n.ChildCount() == 0 {
		return ""
	}
	return Text(n.Child(0), source)
}

// GetFunctionHeadRange returns the range a "missing return"/"expected
// to return a value" diagnostic should point at: from the start of
// the function's declaring construct (or, for a class field/object
// pair, from the start of that construct) up to, not including, the
// opening paren of its parameter list; for an arrow function, the `=>`
// token alone.
func GetFunctionHeadRange(n *sitter.Node, tokens *Tokens) Range {
	if n == nil {
		return Range{}
	}
	parent := Parent(n)
	if parent != nil && (Is(parent, KindFieldDefinition) || Is(parent, KindPublicFieldDef) || Is(parent, KindPair)) {
		return spanRange(parent, openingParen(n, tokens))
	}
	if Is(n, KindArrowFunction) {
		body := Field(n, "body")
		arrow := tokens.TokenBefore(body)
		return RangeOf(arrow)
	}
	return spanRange(n, openingParen(n, tokens))
}

func openingParen(n *sitter.Node, tokens *Tokens) *sitter.Node {
	params := Field(n, "parameters")
	if params == nil {
		return nil
	}
	return tokens.FirstToken(params)
}

// spanRange builds a Range running from start's start to end's start,
// falling back to start's own range if end is nil.
func spanRange(start, end *sitter.Node) Range {
	sr := RangeOf(start)
	if end == nil {
		return sr
	}
	er := RangeOf(end)
	return Range{
		StartByte: sr.StartByte,
		EndByte:   er.StartByte,
		StartLine: sr.StartLine,
		StartCol:  sr.StartCol,
		EndLine:   er.StartLine,
		EndCol:    er.StartCol,
	}
}
