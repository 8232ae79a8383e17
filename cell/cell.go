package cell

import "cellgrid/position"

// Cell holds one grid slot's body plus its two edge sets: referenced
// (out-edges, cells it reads) and dependents (in-edges, cells that read
// it). Edge sets are relations the owning sheet maintains, never
// ownership — a Cell never holds a pointer to another Cell (spec.md §9).
type Cell struct {
	Body Body

	referenced map[position.Position]struct{}
	dependents map[position.Position]struct{}
}

// New returns a freshly materialised, empty-bodied cell.
func New() *Cell {
	return &Cell{Body: EmptyBody}
}

// Referenced returns the set of positions this cell currently reads, in
// no particular order.
func (c *Cell) Referenced() []position.Position {
	return keys(c.referenced)
}

// Dependents returns the set of positions that currently read this cell,
// in no particular order.
func (c *Cell) Dependents() []position.Position {
	return keys(c.dependents)
}

// IsReferenced reports whether any other cell currently depends on this
// one — ported from original_source's Cell::IsReferenced, used by the
// clear protocol to decide whether a slot can be dropped (spec.md §4.E).
func (c *Cell) IsReferenced() bool {
	return len(c.dependents) > 0
}

// AddDependent records that pos reads this cell.
func (c *Cell) AddDependent(pos position.Position) {
	if c.dependents == nil {
		c.dependents = make(map[position.Position]struct{})
	}
	c.dependents[pos] = struct{}{}
}

// RemoveDependent forgets that pos reads this cell.
func (c *Cell) RemoveDependent(pos position.Position) {
	delete(c.dependents, pos)
}

// SetReferenced replaces this cell's out-edge set wholesale. The caller
// (sheet/graph) is responsible for updating the corresponding dependents
// sets on the referenced cells.
func (c *Cell) SetReferenced(positions []position.Position) {
	c.referenced = make(map[position.Position]struct{}, len(positions))
	for _, p := range positions {
		c.referenced[p] = struct{}{}
	}
}

func keys(m map[position.Position]struct{}) []position.Position {
	out := make([]position.Position, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	return out
}
