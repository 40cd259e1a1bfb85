package ast

import (
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Tokens is a flat, source-ordered view over every leaf node in a
// tree — identifiers, literals, punctuation, and comments alike. "A
// token" here means a lexeme as produced by the parser. It is built
// once per file and handed to rules as a read-only view.
type Tokens struct {
	all []*sitter.Node
}

// NewTokens walks root and collects every leaf node in document order.
func NewTokens(root *sitter.Node) *Tokens {
	t := &Tokens{}
	if root == nil {
		return t
	}
	cursor := sitter.NewTreeCursor(root)
	defer cursor.Close()
	t.collect(cursor)
	return t
}

func (t *Tokens) collect(cursor *sitter.TreeCursor) {
	node := cursor.CurrentNode()
	if node.ChildCount() == 0 {
		t.all = append(t.all, node)
		return
	}
	if cursor.GoToFirstChild() {
		for {
			t.collect(cursor)
			if !cursor.GoToNextSibling() {
				break
			}
		}
		cursor.GoToParent()
	}
}

// Filter is a predicate used to skip tokens (e.g. "skip comments").
type Filter func(*sitter.Node) bool

// IsComment is a Filter matching comment tokens.
func IsComment(n *sitter.Node) bool { return Is(n, KindComment) }

func matches(n *sitter.Node, filters []Filter) bool {
	for _, f := range filters {
		if f != nil && f(n) {
			return false
		}
	}
	return true
}

func (t *Tokens) indexAtOrAfter(pos int) int {
	return sort.Search(len(t.all), func(i int) bool {
		return int(t.all[i].StartByte()) >= pos
	})
}

// FirstToken returns the first token within n, skipping tokens that
// match any of filter.
func (t *Tokens) FirstToken(n *sitter.Node, filter ...Filter) *sitter.Node {
	if n == nil {
		return nil
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	idx := t.indexAtOrAfter(start)
	for ; idx < len(t.all); idx++ {
		tok := t.all[idx]
		if int(tok.StartByte()) >= end {
			return nil
		}
		if matches(tok, filter) {
			return tok
		}
	}
	return nil
}

// LastToken returns the last token within n, skipping tokens that
// match any of filter.
func (t *Tokens) LastToken(n *sitter.Node, filter ...Filter) *sitter.Node {
	if n == nil {
		return nil
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	idx := t.indexAtOrAfter(end) - 1
	for ; idx >= 0; idx-- {
		tok := t.all[idx]
		if int(tok.EndByte()) <= start {
			return nil
		}
		if matches(tok, filter) {
			return tok
		}
	}
	return nil
}

// TokenBefore returns the token immediately preceding n, skipping
// tokens matching filter.
func (t *Tokens) TokenBefore(n *sitter.Node, filter ...Filter) *sitter.Node {
	if n == nil {
		return nil
	}
	idx := t.indexAtOrAfter(int(n.StartByte())) - 1
	for ; idx >= 0; idx-- {
		tok := t.all[idx]
		if matches(tok, filter) {
			return tok
		}
	}
	return nil
}

// TokenAfter returns the token immediately following n, skipping
// tokens matching filter.
func (t *Tokens) TokenAfter(n *sitter.Node, filter ...Filter) *sitter.Node {
	if n == nil {
		return nil
	}
	idx := t.indexAtOrAfter(int(n.EndByte()))
	for ; idx < len(t.all); idx++ {
		tok := t.all[idx]
		if matches(tok, filter) {
			return tok
		}
	}
	return nil
}

// TokensIn returns every token whose byte range falls within
// [startByte, endByte), skipping tokens matching filter.
func (t *Tokens) TokensIn(startByte, endByte int, filter ...Filter) []*sitter.Node {
	var out []*sitter.Node
	idx := t.indexAtOrAfter(startByte)
	for ; idx < len(t.all); idx++ {
		tok := t.all[idx]
		if int(tok.StartByte()) >= endByte {
			break
		}
		if matches(tok, filter) {
			out = append(out, tok)
		}
	}
	return out
}

// CommentsBefore returns the run of comment tokens immediately
// preceding n (before any non-comment token).
func (t *Tokens) CommentsBefore(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	idx := t.indexAtOrAfter(int(n.StartByte())) - 1
	var out []*sitter.Node
	for ; idx >= 0; idx-- {
		if !Is(t.all[idx], KindComment) {
			break
		}
		out = append(out, t.all[idx])
	}
	// Reverse into source order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// CommentsAfter returns the run of comment tokens immediately
// following n (after any non-comment token).
func (t *Tokens) CommentsAfter(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	idx := t.indexAtOrAfter(int(n.EndByte()))
	var out []*sitter.Node
	for ; idx < len(t.all); idx++ {
		if !Is(t.all[idx], KindComment) {
			break
		}
		out = append(out, t.all[idx])
	}
	return out
}

// CommentsInside returns every comment token within n's byte range.
func (t *Tokens) CommentsInside(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	return t.TokensIn(int(n.StartByte()), int(n.EndByte()), func(tok *sitter.Node) bool {
		return !Is(tok, KindComment)
	})
}

// CommentsExistBetween reports whether any comment token's range
// falls between a's end and b's start.
func (t *Tokens) CommentsExistBetween(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return len(t.TokensIn(int(a.EndByte()), int(b.StartByte()), func(tok *sitter.Node) bool {
		return !Is(tok, KindComment)
	})) > 0
}
