package codepath

// HasBackEdge reports whether seg has a PrevSegments entry whose id is
// greater than seg's own, meaning a later-built segment links back onto
// it. Because segment ids are assigned in build order, every ordinary
// (forward) edge points from a lower id to a higher one; a reversed one
// is either a loop's back-edge (the body's end or a `continue` linking
// to the loop start) or a `throw` inside a try linking to the catch
// entry, which is created when the try is entered. A segment that links
// onto itself (same id) is not reported.
func HasBackEdge(seg *Segment) bool {
	for _, p := range seg.PrevSegments {
		if p > seg.ID {
			return true
		}
	}
	return false
}

// TraverseSegments visits every segment reachable from start once,
// depth-first along NextSegments (in the order each segment's edges
// were linked), invoking visit with the segment and HasBackEdge(seg).
func (p *CodePath) TraverseSegments(start SegmentID, visit func(seg *Segment, isLoopStart bool)) {
	seen := make(map[SegmentID]bool)
	var walk func(id SegmentID)
	walk = func(id SegmentID) {
		if seen[id] {
			return
		}
		seen[id] = true
		seg := p.segments[id]
		visit(seg, HasBackEdge(seg))
		for _, next := range seg.NextSegments {
			walk(next)
		}
	}
	walk(start)
}

// TraverseAllSegments visits every segment of every reachable function
// (and the program) in the Manager, grouped by CodePath.
func (m *Manager) TraverseAllSegments(visit func(path *CodePath, seg *Segment, isLoopStart bool)) {
	for _, p := range m.Paths {
		p.TraverseSegments(p.InitialSegment, func(seg *Segment, isLoopStart bool) {
			visit(p, seg, isLoopStart)
		})
	}
}
