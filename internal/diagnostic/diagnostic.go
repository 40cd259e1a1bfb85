// Package diagnostic defines the Violation/FileResult output shapes a
// rule reports and a run assembles per file.
package diagnostic

import (
	"jslint.dev/engine/internal/ast"
	"jslint.dev/engine/internal/fixer"
)

// Severity is the severity level a rule's configuration assigns.
type Severity string

const (
	SeverityOff   Severity = "off"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Suggestion is an optional, non-automatic alternative fix a rule may
// attach to a violation alongside (or instead of) its primary Fix.
type Suggestion struct {
	Description string              `json:"description"`
	Fix         *fixer.FixDescriptor `json:"fix,omitempty"`
}

// Violation is one diagnostic a rule reported.
type Violation struct {
	Rule        string              `json:"rule"`
	Severity    Severity            `json:"severity"`
	MessageID   string              `json:"message_id,omitempty"`
	Message     string              `json:"message"`
	Range       ast.Range           `json:"range"`
	Fix         *fixer.FixDescriptor `json:"fix,omitempty"`
	Suggestions []Suggestion        `json:"suggestions,omitempty"`
}

// ResultKind classifies how a file's analysis concluded.
type ResultKind string

const (
	ResultOK        ResultKind = "ok"
	ResultParseErr  ResultKind = "parse_error"
	ResultTimeout   ResultKind = "timeout"
	ResultRuleError ResultKind = "rule_error"
)

// FileResult is one file's complete analysis output.
type FileResult struct {
	File       string      `json:"file"`
	Kind       ResultKind  `json:"kind"`
	Violations []Violation `json:"violations,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// SortStable orders violations by start byte, then original encounter
// order, using a stable sort so same-offset violations keep
// registration order.
func SortStable(vs []Violation) {
	stableSortByStartByte(vs)
}

func stableSortByStartByte(vs []Violation) {
	// insertion sort: violation counts per file are small (dozens, not
	// thousands), and a stable sort is the whole point here.
	for i := 1; i < len(vs); i++ {
		j := i
		for j > 0 && vs[j-1].Range.StartByte > vs[j].Range.StartByte {
			vs[j-1], vs[j] = vs[j], vs[j-1]
			j--
		}
	}
}
