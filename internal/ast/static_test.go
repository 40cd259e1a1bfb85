package ast

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseJS(t *testing.T, source string) (*sitter.Tree, []byte) {
	t.Helper()
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())
	tree := parser.Parse(nil, []byte(source))
	require.NotNil(t, tree)
	return tree, []byte(source)
}

// findFirst returns the first node of the given kind found in a
// pre-order walk of root, or nil.
func findFirst(root *sitter.Node, kind string) *sitter.Node {
	if root == nil {
		return nil
	}
	if root.Type() == kind {
		return root
	}
	for i := 0; i < int(root.ChildCount()); i++ {
		if found := findFirst(root.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func TestIsSpecificID_MatchesLiteralName(t *testing.T) {
	tree, src := parseJS(t, `foo;`)
	defer tree.Close()

	id := findFirst(tree.RootNode(), KindIdentifier)
	require.NotNil(t, id)

	assert.True(t, IsSpecificID(id, "foo", src))
	assert.False(t, IsSpecificID(id, "bar", src))
}

func TestIsSpecificID_MatchesRegexPattern(t *testing.T) {
	tree, src := parseJS(t, `fooBar123;`)
	defer tree.Close()

	id := findFirst(tree.RootNode(), KindIdentifier)
	require.NotNil(t, id)

	assert.True(t, IsSpecificID(id, `/^foo[A-Z]\w*$/`, src))
	assert.False(t, IsSpecificID(id, `/^bar/`, src))
}

func TestIsSpecificID_NilAndWrongKindNeverMatch(t *testing.T) {
	tree, src := parseJS(t, `"foo";`)
	defer tree.Close()

	str := findFirst(tree.RootNode(), KindString)
	assert.False(t, IsSpecificID(str, "foo", src))
	assert.False(t, IsSpecificID(nil, "foo", src))
}

func TestIsSpecificMemberAccess_MatchesLiteralObjectAndProperty(t *testing.T) {
	tree, src := parseJS(t, `console.log(1);`)
	defer tree.Close()

	member := findFirst(tree.RootNode(), KindMemberExpression)
	require.NotNil(t, member)

	assert.True(t, IsSpecificMemberAccess(member, "console", "log", src))
	assert.False(t, IsSpecificMemberAccess(member, "console", "warn", src))
	assert.True(t, IsSpecificMemberAccess(member, "", "log", src), "empty obj means match any object")
}

func TestIsSpecificMemberAccess_MatchesRegexProperty(t *testing.T) {
	tree, src := parseJS(t, `obj.handleClick(1);`)
	defer tree.Close()

	member := findFirst(tree.RootNode(), KindMemberExpression)
	require.NotNil(t, member)

	assert.True(t, IsSpecificMemberAccess(member, "obj", `/^handle[A-Z]/`, src))
	assert.False(t, IsSpecificMemberAccess(member, "obj", `/^on[A-Z]/`, src))
}

func TestIsSpecificMemberAccess_MatchesBracketSubscriptWithStaticKey(t *testing.T) {
	tree, src := parseJS(t, `obj['log'](1);`)
	defer tree.Close()

	sub := findFirst(tree.RootNode(), KindSubscriptExpression)
	require.NotNil(t, sub)

	assert.True(t, IsSpecificMemberAccess(sub, "obj", "log", src))
	assert.True(t, IsSpecificMemberAccess(sub, "obj", `/^l/`, src))
	assert.False(t, IsSpecificMemberAccess(sub, "obj", "warn", src))
}
