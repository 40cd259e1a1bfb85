// Package rule implements the Rule Runtime and the Rule API surface /
// Context: rules are registered as data (a Descriptor), the Runtime
// drives one depth-first traversal per file, and dispatches
// Enter/Exit events to every listener whose selector or tree-query
// matches the current node.
package rule

import (
	"jslint.dev/engine/internal/diagnostic"
)

// Severity is the configured severity for one rule in one run.
type Severity = diagnostic.Severity

// Listener is one (selector-or-query, enter|exit, callback) triple.
// Pattern is either a bare node kind ("if_statement") or
// a Tree-sitter s-expression query; Exit reports which half of the
// traversal it fires on. Query patterns must capture their matched
// node as `@target` — the Runtime fires the listener when the
// traversal's current node is that capture, so a query listener
// behaves exactly like a kind listener once compiled.
type Listener struct {
	Pattern string
	Exit    bool
	Handle  HandleFunc
}

// HandleFunc is a listener callback. captures is nil for a bare
// kind-selector listener and holds the query's named captures
// (including "target") for a tree-query listener.
type HandleFunc func(ctx *Context, captures Captures)

// Captures is the capture-name -> node map a tree-query listener
// receives; for a plain kind-selector listener this is nil and
// callbacks use ctx.Node() instead.
type Captures map[string]any

// StateInit builds a rule's state for one scope: PerConfig runs once
// per rule configuration (e.g. parsing/validating options), PerFileRun
// runs fresh for every file the rule is applied to, seeded from the
// per-config state. Either may be nil.
type StateInit struct {
	PerConfig  func(options map[string]any) (any, error)
	PerFileRun func(perConfig any) any
}

// Descriptor is a rule, expressed entirely as data: name, messages,
// state slots, listeners, and whether it can attach fixes. Nothing
// here executes outside the Handle callbacks the rule's author
// supplied.
type Descriptor struct {
	Name     string
	Language string // target language tag; this engine only ever registers "javascript"
	Messages map[string]string
	State    StateInit
	Listeners []Listener
	Fixable  bool
}

// Message renders id's template against data, substituting
// "{{placeholder}}" tokens. An unknown id returns itself verbatim — an
// author typo in a message id should surface as garbled output, not a
// panic.
func (d *Descriptor) Message(id string, data map[string]string) string {
	tmpl, ok := d.Messages[id]
	if !ok {
		return id
	}
	return substitute(tmpl, data)
}

func substitute(tmpl string, data map[string]string) string {
	out := make([]byte, 0, len(tmpl))
	for i := 0; i < len(tmpl); {
		if i+1 < len(tmpl) && tmpl[i] == '{' && tmpl[i+1] == '{' {
			end := indexFrom(tmpl, "}}", i+2)
			if end >= 0 {
				key := tmpl[i+2 : end]
				out = append(out, data[key]...)
				i = end + 2
				continue
			}
		}
		out = append(out, tmpl[i])
		i++
	}
	return string(out)
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}
	idx := indexOf(s[from:], substr)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}
