package ast

import sitter "github.com/smacker/go-tree-sitter"

// Precedence tables for binary/logical/ternary/assignment operators,
// used by fix-safety checks that need to know whether an expression
// can be substituted into a larger one without added parentheses.
// Higher binds tighter. Mirrors the canonical JS operator-precedence
// table (ECMA-262 Table "Operator precedence").
var binaryPrecedence = map[string]int{
	"??": 3,
	"||": 3,
	"&&": 4,
	"|":  5,
	"^":  6,
	"&":  7,
	"==": 8, "!=": 8, "===": 8, "!==": 8,
	"<": 9, "<=": 9, ">": 9, ">=": 9, "in": 9, "instanceof": 9,
	"<<": 10, ">>": 10, ">>>": 10,
	"+": 11, "-": 11,
	"*": 12, "/": 12, "%": 12,
	"**": 13,
}

const (
	precedenceSequence   = 0
	precedenceAssignment = 1
	precedenceTernary    = 2
	precedenceUnary      = 15
	precedenceUpdate     = 16
	precedenceCall       = 18
	precedenceMember     = 19
	precedencePrimary    = 20
)

// GetPrecedence returns the canonical precedence used by fix-safety
// checks for a given expression node.
func GetPrecedence(n *sitter.Node, source []byte) int {
	if n == nil {
		return precedencePrimary
	}
	switch n.Type() {
	case KindSequenceExpression:
		return precedenceSequence
	case KindAssignmentExpr, KindAugmentedAssignExpr, KindYieldExpression:
		return precedenceAssignment
	case KindTernaryExpression:
		return precedenceTernary
	case KindBinaryExpression:
		op := operatorOf(n, source)
		if p, ok := binaryPrecedence[op]; ok {
			return p
		}
		return precedencePrimary
	case KindUnaryExpression, KindAwaitExpression:
		return precedenceUnary
	case KindUpdateExpression:
		return precedenceUpdate
	case KindCallExpression, KindNewExpression:
		return precedenceCall
	case KindMemberExpression, KindSubscriptExpression:
		return precedenceMember
	case KindParenthesizedExpr:
		return precedencePrimary
	default:
		return precedencePrimary
	}
}

func operatorOf(n *sitter.Node, source []byte) string {
	if op := Field(n, "operator"); op != nil {
		return Text(op, source)
	}
	return ""
}
