package codepath

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Analyze drives a Builder over root with its own depth-first
// Enter/Exit walk. It exists so the analyzer can be exercised and
// tested standalone; the Rule Runtime instead drives a Builder
// directly, interleaving these same Enter/Exit calls with rule
// dispatch in one traversal.
func Analyze(root *sitter.Node, source []byte) *Manager {
	b := NewBuilder(source)
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		b.Enter(n)
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			walk(n.Child(i))
		}
		b.Exit(n)
	}
	walk(root)
	return b.Finish()
}
