package sheet

import "cellgrid/position"

// wouldCreateCycle answers spec.md §4.E's cycle check: would installing a
// body at pos that reads refs close a cycle? It is pure — it mutates
// nothing and only reads cells that already exist — so it is safe to run
// before any part of the write is committed, which is what lets a
// rejected write leave the sheet byte-identical to its prior state
// (spec.md §8 invariant 3).
//
// It never reads pos's *old* referenced set; it starts at pos and follows
// dependents edges (every cell that transitively reads pos), and reports a
// cycle if any prospective out-neighbour is among them — including pos
// itself, the self-reference case.
func (s *Sheet) wouldCreateCycle(pos position.Position, refs []position.Position) bool {
	targets := make(map[position.Position]bool, len(refs))
	for _, r := range refs {
		targets[r] = true
	}
	if len(targets) == 0 {
		return false
	}

	visited := make(map[position.Position]bool)
	queue := []position.Position{pos}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if targets[cur] {
			return true
		}

		c, ok := s.cellAt(cur)
		if !ok {
			continue
		}
		for _, dep := range c.Dependents() {
			if !visited[dep] {
				queue = append(queue, dep)
			}
		}
	}
	return false
}

// invalidateDependents is the entry point called after a body swap at
// pos: it forces invalidation of every direct dependent of pos (level 1,
// unconditionally) and then recurses with the cache-presence fast path
// at every deeper level. This resolves the Open Question in spec.md §9:
// the original source only force-invalidates the changed cell itself and
// treats every dependent's cache-absence as "nothing downstream could be
// stale", which spec.md flags as unsound across some edit orderings —
// here the first level is always walked regardless of cache state.
func (s *Sheet) invalidateDependents(pos position.Position) {
	c, ok := s.cellAt(pos)
	if !ok {
		return
	}

	visited := map[position.Position]bool{pos: true}
	for _, dep := range c.Dependents() {
		s.forceInvalidate(dep, visited)
	}
}

// forceInvalidate unconditionally clears pos's cache and recurses into
// its dependents via the cache-gated fast path.
func (s *Sheet) forceInvalidate(pos position.Position, visited map[position.Position]bool) {
	if visited[pos] {
		return
	}
	visited[pos] = true

	c, ok := s.cellAt(pos)
	if !ok {
		return
	}
	c.Body.Invalidate()
	for _, dep := range c.Dependents() {
		s.pruneInvalidate(dep, visited)
	}
}

// pruneInvalidate only descends into a dependent if it currently holds a
// cache — once a formula cell has no cache, everything transitively
// downstream of it was already invalidated by an earlier write (the
// graph is acyclic at rest, so no cell is visited twice along any one
// invalidation pass; the visited set here only guards against diamond
// dependency shapes revisiting a node through two different parents).
func (s *Sheet) pruneInvalidate(pos position.Position, visited map[position.Position]bool) {
	if visited[pos] {
		return
	}
	visited[pos] = true

	c, ok := s.cellAt(pos)
	if !ok {
		return
	}
	if !c.Body.HasCache() {
		return
	}
	c.Body.Invalidate()
	for _, dep := range c.Dependents() {
		s.pruneInvalidate(dep, visited)
	}
}
