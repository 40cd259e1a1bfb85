package rule

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/codepath"
	"jslint.dev/engine/internal/diagnostic"
	"jslint.dev/engine/internal/fixer"
	"jslint.dev/engine/internal/scope"
)

// Context is the Rule API surface a listener callback receives:
// read-only access to the current node, the file's source
// and tokens, the Scope Manager, the Code-Path Analyzer's state for
// the node just visited, and the rule's own mutable state slots — plus
// Report, the only way a listener produces output.
type Context struct {
	ruleName string
	node     *sitter.Node
	source   []byte
	tokens   *ast.Tokens

	scopeMgr *scope.Manager
	cpMgr    *codepath.Manager
	cpPath   *codepath.CodePath
	cpSeg    codepath.SegmentID
	hasCP    bool

	perConfig  any
	perFileRun any

	violations *[]diagnostic.Violation
	severity   diagnostic.Severity
	messages   map[string]string
}

// Node returns the node currently being visited — the bare-kind
// listener's implicit target.
func (c *Context) Node() *sitter.Node { return c.node }

// Source returns the full file source the current traversal is over.
func (c *Context) Source() []byte { return c.source }

// Tokens returns the flat token/comment index for the current file.
func (c *Context) Tokens() *ast.Tokens { return c.tokens }

// Text returns n's source text.
func (c *Context) Text(n *sitter.Node) string { return ast.Text(n, c.source) }

// TextSlice returns the source text between two byte offsets.
func (c *Context) TextSlice(start, end int) string { return string(c.source[start:end]) }

// ScopeManager exposes the file's Scope Manager.
func (c *Context) ScopeManager() *scope.Manager { return c.scopeMgr }

// ScopeOf returns the innermost scope enclosing n.
func (c *Context) ScopeOf(n *sitter.Node) *scope.Scope { return c.scopeMgr.ScopeOf(n) }

// CodePathManager exposes every code path built for the file so far.
func (c *Context) CodePathManager() *codepath.Manager { return c.cpMgr }

// CurrentCodePath returns the CodePath owning the node currently being
// visited, or nil outside any function/program (should not happen once
// the program's own path is entered).
func (c *Context) CurrentCodePath() *codepath.CodePath { return c.cpPath }

// CurrentSegment returns the segment id current within CurrentCodePath
// at this point in the traversal, and whether one exists yet.
func (c *Context) CurrentSegment() (codepath.SegmentID, bool) {
	return c.cpSeg, c.hasCP
}

// State returns the rule's per-file-run state slot, seeded by the
// rule's StateInit.PerFileRun at the start of each file.
func (c *Context) State() any { return c.perFileRun }

// Config returns the rule's per-configuration state slot, built once
// by StateInit.PerConfig when the rule was registered with its options.
func (c *Context) Config() any { return c.perConfig }

// Self returns the rule's own name, for self-referential messages or
// logging.
func (c *Context) Self() string { return c.ruleName }

// NewFix starts a Fixer for a violation this listener is about to
// report.
func (c *Context) NewFix() *fixer.Fixer { return fixer.New() }

// Report appends a violation for the current rule at node's range,
// rendering messageID against data via the rule's message table. Fix
// may be nil.
func (c *Context) Report(node *sitter.Node, messageID string, data map[string]string, fix *fixer.FixDescriptor) {
	msg := messageID
	if tmpl, ok := c.messages[messageID]; ok {
		msg = substitute(tmpl, data)
	}
	*c.violations = append(*c.violations, diagnostic.Violation{
		Rule:      c.ruleName,
		Severity:  c.severity,
		MessageID: messageID,
		Message:   msg,
		Range:     ast.RangeOf(node),
		Fix:       fix,
	})
}

// ReportAtRange appends a violation exactly like Report, but against
// an explicit sub-range instead of node's own full range — for rules
// whose primary range is a slice of a larger construct, e.g. a
// function's head range rather than its whole body.
func (c *Context) ReportAtRange(rng ast.Range, messageID string, data map[string]string, fix *fixer.FixDescriptor) {
	msg := messageID
	if tmpl, ok := c.messages[messageID]; ok {
		msg = substitute(tmpl, data)
	}
	*c.violations = append(*c.violations, diagnostic.Violation{
		Rule:      c.ruleName,
		Severity:  c.severity,
		MessageID: messageID,
		Message:   msg,
		Range:     rng,
		Fix:       fix,
	})
}

// ReportRaw appends a violation with a caller-supplied literal
// message, bypassing the rule's message table — for ad hoc internal
// diagnostics. The runtime's own RuleInternal synthetic violations do
// not go through it; safeCall appends those directly.
func (c *Context) ReportRaw(node *sitter.Node, message string) {
	*c.violations = append(*c.violations, diagnostic.Violation{
		Rule:     c.ruleName,
		Severity: c.severity,
		Message:  message,
		Range:    ast.RangeOf(node),
	})
}
