// Package errs is the engine's error taxonomy: a small closed set of
// string codes plus a single payload type carrying {Code, Message,
// Detail}.
package errs

import "encoding/json"

// Code enumerates the engine's error taxonomy.
const (
	// Configuration errors: invalid rule name, malformed options,
	// malformed query. Surfaced at startup, fatal for that rule.
	InvalidConfig = "ERR_INVALID_CONFIG"
	InvalidQuery  = "ERR_INVALID_QUERY"
	InvalidRule   = "ERR_INVALID_RULE"

	// Parse errors: reported as a single diagnostic; rules are skipped
	// or partially run depending on harness policy.
	Parse = "ERR_PARSE"

	// Rule internal errors: a callback-raised panic, caught and
	// recorded as {rule, kind: internal, range: whole file}.
	RuleInternal = "ERR_RULE_INTERNAL"

	// Resource errors: file I/O, memory, store connectivity.
	IO    = "ERR_IO"
	Store = "ERR_STORE"
)

// E is a uniform error payload for both human and JSON output. Error
// (and so %s and %v) gives Message, followed by ": Detail" when Detail
// is set; E.JSON gives the JSON form.
type E struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e E) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e E) String() string { return e.Error() }

func (e E) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// Is reports whether err is an E with the given code.
func Is(err error, code string) bool {
	e, ok := err.(E)
	return ok && e.Code == code
}

// Wrap builds an E with code and msg, carrying inner's message as Detail.
func Wrap(code, msg string, inner error) error {
	if inner == nil {
		return E{Code: code, Message: msg}
	}
	return E{Code: code, Message: msg, Detail: inner.Error()}
}

// New builds an E with no wrapped cause.
func New(code, msg string) error {
	return E{Code: code, Message: msg}
}
