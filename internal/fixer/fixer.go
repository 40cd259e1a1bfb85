// Package fixer implements FixDescriptor and the Fixer edit builder: a
// rule callback records a sequence of primitive text edits against the
// current file; the core validates the edits are non-overlapping and
// bundles them into a violation's FixDescriptor. The core never
// applies a fix to source — that is an external collaborator's job.
// Apply and Preview return the fixed bytes or a unified diff without
// writing anything; the jslint CLI has no flag that calls them.
package fixer

import (
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
)

// EditKind enumerates the primitive edit shapes a fix can describe.
type EditKind string

const (
	EditReplace      EditKind = "replace"
	EditInsertBefore EditKind = "insert_before"
	EditInsertAfter  EditKind = "insert_after"
	EditRemove       EditKind = "remove"
)

// Edit is one primitive text edit. Start/End are byte offsets into the
// original source; for InsertBefore, End==Start==the target's start
// byte (text is spliced there); for InsertAfter, Start==End==the
// target's end byte.
type Edit struct {
	Kind  EditKind
	Start int
	End   int
	Text  string
}

// FixDescriptor is a non-overlapping sequence of primitive edits
// attached to one violation.
type FixDescriptor struct {
	Edits []Edit
}

// Fixer is a per-violation edit builder. Create one with New, record
// edits with Replace/InsertBefore/InsertAfter/Remove (or their *Node
// convenience forms), then call Build to validate non-overlap and
// obtain the FixDescriptor the Rule Runtime attaches to the violation.
type Fixer struct {
	edits []Edit
}

// New starts a fresh Fixer for one violation.
func New() *Fixer { return &Fixer{} }

// Replace records a replace(range, text) edit.
func (f *Fixer) Replace(start, end int, text string) *Fixer {
	f.edits = append(f.edits, Edit{Kind: EditReplace, Start: start, End: end, Text: text})
	return f
}

// ReplaceNode records a replace edit over n's byte range.
func (f *Fixer) ReplaceNode(n *sitter.Node, text string) *Fixer {
	r := ast.RangeOf(n)
	return f.Replace(r.StartByte, r.EndByte, text)
}

// InsertBefore records an insert_before(node|range, text) edit.
func (f *Fixer) InsertBefore(at int, text string) *Fixer {
	f.edits = append(f.edits, Edit{Kind: EditInsertBefore, Start: at, End: at, Text: text})
	return f
}

// InsertBeforeNode inserts text immediately before n.
func (f *Fixer) InsertBeforeNode(n *sitter.Node, text string) *Fixer {
	return f.InsertBefore(ast.RangeOf(n).StartByte, text)
}

// InsertAfter records an insert_after(node|range, text) edit.
func (f *Fixer) InsertAfter(at int, text string) *Fixer {
	f.edits = append(f.edits, Edit{Kind: EditInsertAfter, Start: at, End: at, Text: text})
	return f
}

// InsertAfterNode inserts text immediately after n.
func (f *Fixer) InsertAfterNode(n *sitter.Node, text string) *Fixer {
	return f.InsertAfter(ast.RangeOf(n).EndByte, text)
}

// Remove records a remove(node|range) edit.
func (f *Fixer) Remove(start, end int) *Fixer {
	f.edits = append(f.edits, Edit{Kind: EditRemove, Start: start, End: end})
	return f
}

// RemoveNode records a remove edit over n's byte range.
func (f *Fixer) RemoveNode(n *sitter.Node) *Fixer {
	r := ast.RangeOf(n)
	return f.Remove(r.StartByte, r.EndByte)
}

// Build validates that every recorded edit is non-overlapping with
// every other and returns the resulting FixDescriptor. Two edits at
// the same zero-width insertion point (e.g. an insert_after at X and
// a later insert_before also at X) are not considered overlapping.
func (f *Fixer) Build() (*FixDescriptor, error) {
	if len(f.edits) == 0 {
		return &FixDescriptor{}, nil
	}
	sorted := append([]Edit(nil), f.edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.End > cur.Start {
			return nil, fmt.Errorf("overlapping fix edits: [%d,%d) and [%d,%d)", prev.Start, prev.End, cur.Start, cur.End)
		}
	}
	return &FixDescriptor{Edits: sorted}, nil
}

// Apply splices fd's edits into source, in reverse offset order so
// earlier edits' offsets are never invalidated by later ones. This is
// NOT invoked by the Rule Runtime itself (fix application to source is
// an external collaborator's job); Preview builds its diff from it.
func Apply(source []byte, fd *FixDescriptor) []byte {
	if fd == nil || len(fd.Edits) == 0 {
		return append([]byte(nil), source...)
	}
	out := append([]byte(nil), source...)
	for i := len(fd.Edits) - 1; i >= 0; i-- {
		e := fd.Edits[i]
		out = splice(out, e.Start, e.End, []byte(e.Text))
	}
	return out
}

func splice(b []byte, start, end int, replacement []byte) []byte {
	out := make([]byte, 0, len(b)-(end-start)+len(replacement))
	out = append(out, b[:start]...)
	out = append(out, replacement...)
	out = append(out, b[end:]...)
	return out
}
