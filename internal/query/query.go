// Package query compiles rule listener selectors — either a bare
// node-kind string ("if_statement", "if_statement:exit") or a
// Tree-sitter s-expression query with captures and predicates — into
// a form the Rule Runtime can match against nodes during its single
// traversal.
package query

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Selector is a compiled rule listener pattern.
type Selector struct {
	raw string

	// Kind selectors match by exact node type; Exit reports whether
	// this is a "kind:exit" listener rather than an Enter one.
	isKindSelector bool
	kind           string
	exit           bool

	// Query selectors wrap a compiled Tree-sitter query (captures and
	// predicates like "(#eq? @x ...)" handled natively by sitter.Query).
	compiled *sitter.Query
}

// IsQuery reports whether this selector is a tree-query pattern rather
// than a bare kind selector.
func (s *Selector) IsQuery() bool { return s.compiled != nil }

// Kind returns the bare node kind this selector matches, and whether
// it is an exit listener. Only meaningful when !IsQuery().
func (s *Selector) Kind() (kind string, exit bool) { return s.kind, s.exit }

// Raw returns the original selector string, for diagnostics.
func (s *Selector) Raw() string { return s.raw }

// Close releases the underlying compiled query, if any.
func (s *Selector) Close() {
	if s.compiled != nil {
		s.compiled.Close()
	}
}

// Compile builds a Selector from a raw listener pattern against lang.
// A malformed query fails here — at rule registration — never during
// file processing.
func Compile(raw string, lang *sitter.Language) (*Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty listener selector")
	}
	if looksLikeQuery(trimmed) {
		q, err := sitter.NewQuery([]byte(trimmed), lang)
		if err != nil {
			return nil, fmt.Errorf("compiling tree query %q: %w", raw, err)
		}
		return &Selector{raw: raw, compiled: q}, nil
	}
	kind := trimmed
	exit := false
	if idx := strings.LastIndex(trimmed, ":exit"); idx != -1 && idx == len(trimmed)-len(":exit") {
		kind = trimmed[:idx]
		exit = true
	}
	if kind == "" {
		return nil, fmt.Errorf("empty node kind in selector %q", raw)
	}
	return &Selector{raw: raw, isKindSelector: true, kind: kind, exit: exit}, nil
}

// looksLikeQuery distinguishes an s-expression tree query ("(foo
// (bar) @x)") from a bare kind selector ("foo" or "foo:exit").
func looksLikeQuery(s string) bool {
	return strings.ContainsAny(s, "()@")
}

// Match holds one tree-query match: the named captures from the
// pattern.
type Match struct {
	Captures map[string]*sitter.Node
}

// Cursor runs a compiled query Selector against a tree and yields
// matches, applying the query's own predicates (#eq?, #match?, ...)
// via sitter's QueryCursor.FilterPredicates.
type Cursor struct {
	query  *sitter.Query
	cursor *sitter.QueryCursor
	source []byte
}

// NewCursor prepares a Cursor executing sel (which must be IsQuery())
// over root.
func NewCursor(sel *Selector, root *sitter.Node, source []byte) *Cursor {
	qc := sitter.NewQueryCursor()
	qc.Exec(sel.compiled, root)
	return &Cursor{query: sel.compiled, cursor: qc, source: source}
}

// Close releases the underlying query cursor.
func (c *Cursor) Close() { c.cursor.Close() }

// Next returns the next match, or nil when exhausted.
func (c *Cursor) Next() *Match {
	m, ok := c.cursor.NextMatch()
	if !ok {
		return nil
	}
	m = c.cursor.FilterPredicates(m, c.source)
	out := &Match{Captures: make(map[string]*sitter.Node, len(m.Captures))}
	for _, cap := range m.Captures {
		name := c.query.CaptureNameForId(cap.Index)
		node := cap.Node
		out.Captures[name] = node
	}
	return out
}

// All drains every match from the cursor.
func (c *Cursor) All() []*Match {
	var out []*Match
	for {
		m := c.Next()
		if m == nil {
			break
		}
		out = append(out, m)
	}
	return out
}
