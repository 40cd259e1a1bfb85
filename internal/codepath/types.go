// Package codepath implements the Code-Path Analyzer: an
// arena-allocated segment graph built once per function (and once for
// the top-level program), used by rules that reason about control
// flow — reachability, "did every branch return", loop bodies that
// only ever run once, constructor-super ordering.
//
// Segments are addressed by integer id into a flat arena rather than
// linked by pointer, so a rule's traversal over a path's segments
// never needs to chase pointers through a mutable graph.
package codepath

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// EnterOrExit tags whether a recorded node event is the node's entry
// or its exit, matching the single-pass Enter/Exit dispatch the Rule
// Runtime drives the whole analysis from.
type EnterOrExit int

const (
	Enter EnterOrExit = iota
	Exit
)

// NodeEvent is one (enter|exit, node) pair attached to the segment
// that was current when the Rule Runtime's traversal visited it.
type NodeEvent struct {
	When EnterOrExit
	Node *sitter.Node
}

// SegmentID indexes into a CodePath's segment arena.
type SegmentID int

// Segment is one straight-line run of the control-flow graph: no
// branch enters or leaves it except at its ends.
type Segment struct {
	ID            SegmentID
	PrevSegments  []SegmentID
	NextSegments  []SegmentID
	Nodes         []NodeEvent
	Reachable     bool
	loopedPrevAdd map[SegmentID]bool // back-edges, added after the loop body is built

	// LoopNode is set when this segment is the fork point at the top of
	// a while/do-while/for/for-in loop — the node is the loop construct
	// itself. Its PrevSegments tell whether the loop body can ever link
	// back into it, i.e. whether the loop can run more than once: any
	// entry beyond the single edge from before the loop is a link back.
	// HasBackEdge does not see a body that links onto this same segment.
	LoopNode *sitter.Node
}

// FirstNode returns the node of the segment's first recorded event, or
// nil if the segment has no events yet (a freshly forked segment that
// nothing was ever attached to).
func (s *Segment) FirstNode() (EnterOrExit, *sitter.Node, bool) {
	if len(s.Nodes) == 0 {
		return 0, nil, false
	}
	return s.Nodes[0].When, s.Nodes[0].Node, true
}

// CodePath is one function's (or the top-level program's) control-flow
// graph: an id-addressed segment arena plus the entry/exit segment
// sets.
type CodePath struct {
	ID             int
	Origin         *sitter.Node // the function/program/method node this path covers
	Upper          *CodePath    // the enclosing function's code path, nil at the program root
	InitialSegment SegmentID
	// ReturnedSegments holds every segment that ends with an explicit
	// `return`, an implicit function exit, or fall-through at the end
	// of the function body.
	ReturnedSegments []SegmentID
	// ThrownSegments holds every segment that exited via `throw`.
	ThrownSegments []SegmentID
	// FellThroughReachable records whether control could still reach
	// the end of the function/program body without having passed
	// through an explicit return or throw — the state of the path's
	// current segment at the moment its origin node exited. Rules like
	// consistent-return and getter-return use this to tell "every path
	// returns a value" apart from "falls off the end".
	FellThroughReachable bool

	segments []*Segment
}

// FinalSegments returns every segment at which the path exits, by
// return or by throw.
func (p *CodePath) FinalSegments() []SegmentID {
	out := make([]SegmentID, 0, len(p.ReturnedSegments)+len(p.ThrownSegments))
	out = append(out, p.ReturnedSegments...)
	out = append(out, p.ThrownSegments...)
	return out
}

// Segments returns every segment in id order.
func (p *CodePath) Segments() []*Segment { return p.segments }

// Segment looks up a segment by id.
func (p *CodePath) Segment(id SegmentID) *Segment { return p.segments[id] }

func (p *CodePath) newSegment() *Segment {
	s := &Segment{ID: SegmentID(len(p.segments))}
	p.segments = append(p.segments, s)
	return s
}

// link records an edge from -> to and recomputes to's reachability as
// the OR of all its incoming edges seen so far, so a segment fed by at
// least one live predecessor stays reachable even if a later-linked
// predecessor is dead, and a segment fed only by dead predecessors
// never becomes reachable just because it's new.
func (p *CodePath) link(from, to SegmentID) {
	p.segments[from].NextSegments = append(p.segments[from].NextSegments, to)
	p.segments[to].PrevSegments = append(p.segments[to].PrevSegments, from)
	if p.segments[from].Reachable {
		p.segments[to].Reachable = true
	}
}

// Manager holds every CodePath built while analyzing one file, in
// creation order — the program's own top-level path is always first.
type Manager struct {
	Paths []*CodePath
}

// InnermostPath returns current unchanged: the path the builder is
// inside while a node is visited is already the one whose Origin is the
// nearest enclosing function/program. Rules retrieve this as "the code
// path the currently visited node belongs to".
func (m *Manager) InnermostPath(current *CodePath) *CodePath { return current }
