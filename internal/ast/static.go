package ast

import (
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// StaticValue is the result of evaluating a node as a compile-time
// constant. Present reports whether evaluation succeeded; the other
// fields are meaningful only when Present is true.
type StaticValue struct {
	Present bool
	String  string
}

// GetStaticStringValue returns the constant string value of a
// string/regex/null/undefined/numeric/single-piece-template literal.
// Anything else reports Present=false.
func GetStaticStringValue(n *sitter.Node, source []byte) StaticValue {
	if n == nil {
		return StaticValue{}
	}
	switch n.Type() {
	case KindString:
		return StaticValue{Present: true, String: unquoteString(Text(n, source))}
	case KindRegex:
		return StaticValue{Present: true, String: Text(n, source)}
	case KindNull:
		return StaticValue{Present: true, String: "null"}
	case KindUndefined:
		return StaticValue{Present: true, String: "undefined"}
	case KindNumber:
		return StaticValue{Present: true, String: Text(n, source)}
	case KindTemplateString:
		// Only a template with zero substitutions has a static value.
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if Is(n.NamedChild(i), KindTemplateSubstitution) {
				return StaticValue{}
			}
		}
		raw := Text(n, source)
		return StaticValue{Present: true, String: strings.Trim(raw, "`")}
	default:
		return StaticValue{}
	}
}

func unquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	// Best-effort unescape; exotic escapes are left as-is since callers
	// only need the value for pattern comparisons, not execution.
	replacer := strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`, `\n`, "\n", `\t`, "\t")
	return replacer.Replace(inner)
}

// GetStaticPropertyName returns the constant property name of a
// member/subscript/shorthand-property/pair/method-or-field-with-literal-key
// node. Computed keys with a non-constant expression report
// Present=false.
func GetStaticPropertyName(n *sitter.Node, source []byte) StaticValue {
	if n == nil {
		return StaticValue{}
	}
	switch n.Type() {
	case KindMemberExpression:
		if prop := Field(n, "property"); prop != nil {
			return StaticValue{Present: true, String: Text(prop, source)}
		}
	case KindSubscriptExpression:
		if idx := Field(n, "index"); idx != nil {
			inner := SkipParentheses(idx)
			if Is(inner, KindString) || Is(inner, KindNumber) {
				return GetStaticStringValue(inner, source)
			}
		}
	case KindPair:
		if key := Field(n, "key"); key != nil {
			if Is(key, KindPropertyIdentifier) || Is(key, KindIdentifier) {
				return StaticValue{Present: true, String: Text(key, source)}
			}
			return GetStaticStringValue(key, source)
		}
	case "shorthand_property_identifier":
		return StaticValue{Present: true, String: Text(n, source)}
	case KindMethodDefinition, KindFieldDefinition, KindPublicFieldDef:
		nameField := "name"
		if n.Type() == KindFieldDefinition {
			nameField = "property"
		}
		if name := Field(n, nameField); name != nil {
			if Is(name, KindPropertyIdentifier) || Is(name, KindIdentifier) {
				return StaticValue{Present: true, String: Text(name, source)}
			}
			return GetStaticStringValue(name, source)
		}
	}
	return StaticValue{}
}

// matchesNamePattern reports whether text matches pattern: an exact
// literal match, or (when pattern is wrapped in "/.../") a regular
// expression search. An invalid regex never matches.
func matchesNamePattern(text, pattern string) bool {
	if len(pattern) >= 2 && pattern[0] == '/' && pattern[len(pattern)-1] == '/' {
		re, err := regexp.Compile(pattern[1 : len(pattern)-1])
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	return text == pattern
}

// IsSpecificID reports whether n is an identifier with exactly the
// given name, or matching the given regular-expression-like pattern
// if pattern is wrapped in "/.../".
func IsSpecificID(n *sitter.Node, name string, source []byte) bool {
	if n == nil || !Is(n, KindIdentifier) {
		return false
	}
	return matchesNamePattern(Text(n, source), name)
}

// IsSpecificMemberAccess reports whether n is `obj.prop` (or
// `obj['prop']`) where obj and prop match the given literal or
// "/.../"-pattern names. An empty obj/prop means "match anything" for
// that side.
func IsSpecificMemberAccess(n *sitter.Node, obj, prop string, source []byte) bool {
	if n == nil {
		return false
	}
	var objNode, propNode *sitter.Node
	switch n.Type() {
	case KindMemberExpression:
		objNode = Field(n, "object")
		propNode = Field(n, "property")
	case KindSubscriptExpression:
		objNode = Field(n, "object")
		idx := Field(n, "index")
		if idx != nil {
			sv := GetStaticStringValue(SkipParentheses(idx), source)
			if sv.Present {
				if prop != "" && !matchesNamePattern(sv.String, prop) {
					return false
				}
				if obj != "" && !IsSpecificID(objNode, obj, source) {
					return false
				}
				return true
			}
		}
		return false
	default:
		return false
	}
	if obj != "" && !IsSpecificID(objNode, obj, source) {
		return false
	}
	if prop != "" && !matchesNamePattern(Text(propNode, source), prop) {
		return false
	}
	return true
}

// ParseNumericLiteral best-effort parses a JS numeric literal's text
// into a float64, supporting decimal, hex (0x), octal (0o) and binary
// (0b) forms with optional numeric separators (`_`).
func ParseNumericLiteral(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(raw, "_", "")
	cleaned = strings.TrimSuffix(cleaned, "n") // BigInt suffix
	v, err := strconv.ParseFloat(cleaned, 64)
	if err == nil {
		return v, true
	}
	if iv, err := strconv.ParseInt(cleaned, 0, 64); err == nil {
		return float64(iv), true
	}
	return 0, false
}
