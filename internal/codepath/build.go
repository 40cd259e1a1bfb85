package codepath

import (
	sitter "github.com/smacker/go-tree-sitter"

	"jslint.dev/engine/internal/ast"
)

// Builder drives code-path construction from the same single
// traversal the Rule Runtime dispatches Enter/Exit events from: the
// analyzer is a listener over the shared DFS, not a second tree walk.
// Feed it every node's Enter then, after its subtree, its Exit, in the
// exact order the runtime visits them.
type Builder struct {
	mgr    *Manager
	stack  []*pathState
	source []byte
}

// NewBuilder starts a Builder that will spawn a fresh CodePath the
// first time Enter sees a function/program origin.
func NewBuilder(source []byte) *Builder {
	return &Builder{mgr: &Manager{}, source: source}
}

// Finish returns the completed Manager. Call once the traversal (and
// every Enter it produced) has a matching Exit.
func (b *Builder) Finish() *Manager { return b.mgr }

// Current returns the CodePath the traversal is inside right now, or
// nil before the first Enter. The Rule Runtime calls this after
// feeding a node to Enter/Exit so a rule's Context can expose "the
// code path owning the node just visited".
func (b *Builder) Current() *CodePath {
	if len(b.stack) == 0 {
		return nil
	}
	return b.top().path
}

// CurrentSegment returns the segment id current at the top of the
// path stack, alongside Current's path.
func (b *Builder) CurrentSegment() (*CodePath, SegmentID, bool) {
	if len(b.stack) == 0 {
		return nil, 0, false
	}
	ps := b.top()
	return ps.path, ps.current, true
}

type pathState struct {
	path    *CodePath
	current SegmentID
	frames  []*frame
	labels  map[string]*frame
}

type frameKind int

const (
	frameBranch frameKind = iota // if / logical (&&,||,??) / ternary / optional-chain
	frameLoop
	frameSwitch
	frameTry
	frameLabeled
)

type frame struct {
	kind  frameKind
	node  *sitter.Node
	saved SegmentID   // pre-branch / pre-loop / pre-switch segment
	ends  []SegmentID // accumulated branch/break exits to merge at Exit

	// loop-specific
	loopStart SegmentID

	// switch-specific
	lastCase   SegmentID // -1 until the first case/default is entered
	sawDefault bool

	// try-specific
	catchHead SegmentID
	hasCatch  bool

	label string
}

func (b *Builder) top() *pathState { return b.stack[len(b.stack)-1] }

// Enter processes a node's Enter event.
func (b *Builder) Enter(n *sitter.Node) {
	if isCodePathOrigin(n) {
		b.enterPath(n)
		return
	}
	if len(b.stack) == 0 {
		return // nodes outside any path (shouldn't happen; program is always an origin)
	}
	ps := b.top()
	b.attach(ps, Enter, n)
	b.handleChildTransition(ps, n)
	b.enterConstruct(ps, n)
}

// Exit processes a node's Exit event.
func (b *Builder) Exit(n *sitter.Node) {
	if len(b.stack) == 0 {
		return
	}
	ps := b.top()
	if len(ps.frames) > 0 && ps.frames[len(ps.frames)-1].node == n {
		b.exitConstruct(ps)
	}
	b.attach(ps, Exit, n)
	if isCodePathOrigin(n) && ps.path.Origin == n {
		b.exitPath()
	}
}

func (b *Builder) attach(ps *pathState, when EnterOrExit, n *sitter.Node) {
	seg := ps.path.segments[ps.current]
	seg.Nodes = append(seg.Nodes, NodeEvent{When: when, Node: n})
}

func (b *Builder) fresh(ps *pathState) SegmentID {
	s := ps.path.newSegment()
	return s.ID
}

func (b *Builder) forkFrom(ps *pathState, from SegmentID) SegmentID {
	id := b.fresh(ps)
	ps.path.link(from, id)
	return id
}

func (b *Builder) merge(ps *pathState, ins []SegmentID) SegmentID {
	if len(ins) == 1 {
		return ins[0]
	}
	id := b.fresh(ps)
	for _, in := range ins {
		ps.path.link(in, id)
	}
	return id
}

// --- function/program origins -------------------------------------------

func isCodePathOrigin(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case ast.KindProgram, ast.KindFunctionDeclaration, ast.KindGeneratorFuncDecl,
		ast.KindFunction, ast.KindGeneratorFunc, ast.KindArrowFunction,
		ast.KindMethodDefinition, ast.KindClassStaticBlock:
		return true
	case ast.KindFieldDefinition, ast.KindPublicFieldDef:
		return ast.Field(n, "value") != nil
	}
	return false
}

func (b *Builder) enterPath(n *sitter.Node) {
	var upper *CodePath
	if len(b.stack) > 0 {
		upper = b.top().path
	}
	p := &CodePath{ID: len(b.mgr.Paths), Origin: n, Upper: upper}
	b.mgr.Paths = append(b.mgr.Paths, p)
	ps := &pathState{path: p, labels: map[string]*frame{}}
	start := p.newSegment()
	start.Reachable = true
	p.InitialSegment = start.ID
	ps.current = start.ID
	b.stack = append(b.stack, ps)
	b.attach(ps, Enter, n)
}

func (b *Builder) exitPath() {
	ps := b.top()
	reachable := ps.path.segments[ps.current].Reachable
	ps.path.FellThroughReachable = reachable
	if reachable {
		ps.path.ReturnedSegments = append(ps.path.ReturnedSegments, ps.current)
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// --- branch/loop/switch/try construct bookkeeping ------------------------

// handleChildTransition reacts to entering a node that is a
// branch-relevant child of the construct currently on top of the frame
// stack — e.g. the "consequence"/"alternative" of an if_statement, or a
// switch_case under a switch_body.
func (b *Builder) handleChildTransition(ps *pathState, n *sitter.Node) {
	if len(ps.frames) == 0 {
		return
	}
	top := ps.frames[len(ps.frames)-1]
	parent := ast.Parent(n)
	if top.kind == frameSwitch && ast.Is(parent, ast.KindSwitchBody) {
		parent = ast.Parent(parent)
	}
	if !ast.Same(parent, top.node) {
		return
	}
	switch top.kind {
	case frameBranch:
		switch top.node.Type() {
		case ast.KindIfStatement, ast.KindTernaryExpression:
			if ast.Same(n, ast.Field(top.node, "consequence")) {
				ps.current = b.forkFrom(ps, top.saved)
			} else if ast.Same(n, ast.Field(top.node, "alternative")) {
				top.ends = append(top.ends, ps.current)
				ps.current = b.forkFrom(ps, top.saved)
			}
		case ast.KindBinaryExpression: // && || ??
			if ast.Same(n, ast.Field(top.node, "right")) {
				top.ends = append(top.ends, ps.current)
				ps.current = b.forkFrom(ps, top.saved)
			}
		}
	case frameSwitch:
		if n.Type() == ast.KindSwitchCase || n.Type() == ast.KindSwitchDefault {
			from := top.saved
			if top.lastCase >= 0 {
				from = top.lastCase
			}
			ps.current = b.forkFrom(ps, from)
			top.lastCase = ps.current
			if n.Type() == ast.KindSwitchDefault {
				top.sawDefault = true
			}
		}
	case frameTry:
		if ast.Same(n, ast.Field(top.node, "handler")) {
			if ps.path.segments[ps.current].Reachable {
				top.ends = append(top.ends, ps.current)
			}
			ps.current = top.catchHead
		} else if ast.Same(n, ast.Field(top.node, "finalizer")) {
			ins := append([]SegmentID{}, top.ends...)
			if ps.path.segments[ps.current].Reachable {
				ins = append(ins, ps.current)
			}
			if len(ins) == 0 {
				ins = []SegmentID{ps.current}
			}
			ps.current = b.merge(ps, ins)
		}
	}
}

func (b *Builder) enterConstruct(ps *pathState, n *sitter.Node) {
	switch n.Type() {
	case ast.KindIfStatement, ast.KindTernaryExpression:
		ps.frames = append(ps.frames, &frame{kind: frameBranch, node: n, saved: ps.current})

	case ast.KindBinaryExpression:
		if op := ast.Field(n, "operator"); op != nil {
			switch ast.Text(op, b.source) {
			case "&&", "||", "??":
				ps.frames = append(ps.frames, &frame{kind: frameBranch, node: n, saved: ps.current})
			}
		}

	case ast.KindWhileStatement:
		loopStart := b.forkFrom(ps, ps.current)
		ps.path.segments[loopStart].LoopNode = n
		ps.current = loopStart
		ps.frames = append(ps.frames, &frame{kind: frameLoop, node: n, loopStart: loopStart})

	case ast.KindDoStatement:
		bodyStart := b.forkFrom(ps, ps.current)
		ps.path.segments[bodyStart].LoopNode = n
		ps.current = bodyStart
		ps.frames = append(ps.frames, &frame{kind: frameLoop, node: n, loopStart: bodyStart})

	case ast.KindForStatement, ast.KindForInStatement:
		loopStart := b.forkFrom(ps, ps.current)
		ps.path.segments[loopStart].LoopNode = n
		ps.current = loopStart
		ps.frames = append(ps.frames, &frame{kind: frameLoop, node: n, loopStart: loopStart})

	case ast.KindSwitchStatement:
		ps.frames = append(ps.frames, &frame{kind: frameSwitch, node: n, saved: ps.current, lastCase: -1})

	case ast.KindTryStatement:
		catchHead := SegmentID(-1)
		hasCatch := ast.Field(n, "handler") != nil
		if hasCatch {
			catchHead = b.forkFrom(ps, ps.current)
		}
		ps.frames = append(ps.frames, &frame{
			kind: frameTry, node: n, saved: ps.current, catchHead: catchHead, hasCatch: hasCatch,
		})

	case ast.KindLabeledStmt:
		label := ast.Field(n, "label")
		name := ""
		if label != nil {
			name = ast.Text(label, b.source)
		}
		ps.frames = append(ps.frames, &frame{kind: frameLabeled, node: n, label: name})

	case ast.KindBreakStatement:
		b.handleBreak(ps, n)
	case ast.KindContinueStmt:
		b.handleContinue(ps, n)
	case ast.KindReturnStatement:
		ps.path.ReturnedSegments = append(ps.path.ReturnedSegments, ps.current)
		b.deadEnd(ps)
	case ast.KindThrowStatement:
		ps.path.ThrownSegments = append(ps.path.ThrownSegments, ps.current)
		if top := b.tryFrame(ps); top != nil && top.hasCatch {
			ps.path.link(ps.current, top.catchHead)
		}
		b.deadEnd(ps)
	}
}

func (b *Builder) exitConstruct(ps *pathState) {
	top := ps.frames[len(ps.frames)-1]
	ps.frames = ps.frames[:len(ps.frames)-1]

	switch top.kind {
	case frameBranch:
		top.ends = append(top.ends, ps.current)
		if top.node.Type() == ast.KindIfStatement && ast.Field(top.node, "alternative") == nil {
			// No else: falling straight through the condition is itself
			// a valid path.
			top.ends = append(top.ends, top.saved)
		}
		ps.current = b.merge(ps, top.ends)

	case frameLoop:
		// Natural fallthrough closes the back edge to the loop start
		// (for while/for/for-in) or reevaluates the condition (do-while
		// modeled the same way: one more pass through loopStart).
		if ps.path.segments[ps.current].Reachable {
			ps.path.link(ps.current, top.loopStart)
		}
		after := append([]SegmentID{top.loopStart}, top.ends...)
		ps.current = b.merge(ps, after)

	case frameSwitch:
		ins := append([]SegmentID{}, top.ends...)
		if !top.sawDefault {
			ins = append(ins, top.saved)
		}
		if top.lastCase >= 0 && ps.path.segments[ps.current].Reachable {
			ins = append(ins, ps.current)
		}
		if len(ins) == 0 {
			ins = []SegmentID{top.saved}
		}
		ps.current = b.merge(ps, ins)

	case frameTry:
		// With a finally clause the try/catch ends were already merged
		// when the finalizer was entered (handleChildTransition); without
		// one, the try's and the catch's ends are merged here.
		if ast.Field(top.node, "finalizer") == nil {
			ins := append([]SegmentID{}, top.ends...)
			if ps.path.segments[ps.current].Reachable {
				ins = append(ins, ps.current)
			}
			if len(ins) == 0 {
				ins = []SegmentID{ps.current}
			}
			ps.current = b.merge(ps, ins)
		}

	case frameLabeled:
		// no graph action; labels only steer break/continue targeting.
	}
}

func (b *Builder) tryFrame(ps *pathState) *frame {
	for i := len(ps.frames) - 1; i >= 0; i-- {
		if ps.frames[i].kind == frameTry {
			return ps.frames[i]
		}
	}
	return nil
}

func (b *Builder) loopOrSwitchFrame(ps *pathState, label string) *frame {
	for i := len(ps.frames) - 1; i >= 0; i-- {
		f := ps.frames[i]
		if label != "" {
			if f.kind == frameLabeled && f.label == label {
				// the next frame below a matching label is the construct.
				if i+1 < len(ps.frames) {
					return ps.frames[i+1]
				}
			}
			continue
		}
		if f.kind == frameLoop || f.kind == frameSwitch {
			return f
		}
	}
	return nil
}

func labelOf(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	if l := ast.Field(n, "label"); l != nil {
		return ast.Text(l, source)
	}
	return ""
}

func (b *Builder) handleBreak(ps *pathState, n *sitter.Node) {
	label := labelOf(n, b.source)
	if f := b.loopOrSwitchFrame(ps, label); f != nil {
		f.ends = append(f.ends, ps.current)
	}
	b.deadEnd(ps)
}

func (b *Builder) handleContinue(ps *pathState, n *sitter.Node) {
	label := labelOf(n, b.source)
	var f *frame
	for i := len(ps.frames) - 1; i >= 0; i-- {
		if ps.frames[i].kind == frameLoop && (label == "" || labelMatchesLoop(ps, i, label)) {
			f = ps.frames[i]
			break
		}
	}
	if f != nil {
		ps.path.link(ps.current, f.loopStart)
	}
	b.deadEnd(ps)
}

func labelMatchesLoop(ps *pathState, loopIdx int, label string) bool {
	if loopIdx == 0 {
		return false
	}
	prev := ps.frames[loopIdx-1]
	return prev.kind == frameLabeled && prev.label == label
}

// deadEnd starts a fresh, unreachable segment so that sibling nodes
// still visited after a break/continue/return/throw have somewhere to
// attach without rejoining the live graph.
func (b *Builder) deadEnd(ps *pathState) {
	id := b.fresh(ps)
	ps.path.segments[id].Reachable = false
	ps.current = id
}
