// Package sheet owns the cell grid: addressing, growth, the write
// protocol that gates every edit against the dependency graph, and the
// printable-region text output spec.md §6.1 specifies. It is the single
// owner of every cell; cells relate to each other only by position,
// never by pointer (spec.md §9).
package sheet

import (
	"fmt"
	"io"
	"strconv"

	"cellgrid/cell"
	"cellgrid/position"
)

// ChangeListener is notified after a successful Set or Clear completes
// its write protocol, including invalidation. It is the hook the
// internal/server and internal/eventbus packages use to observe the
// sheet without the core needing to know transports exist.
type ChangeListener func(pos position.Position)

// Sheet is a dense, on-demand-growing grid of cells.
type Sheet struct {
	rows      [][]*cell.Cell
	listeners []ChangeListener
}

// New returns an empty sheet.
func New() *Sheet {
	return &Sheet{}
}

// OnChange registers l to run after every successful write or clear.
func (s *Sheet) OnChange(l ChangeListener) {
	s.listeners = append(s.listeners, l)
}

func (s *Sheet) notify(pos position.Position) {
	for _, l := range s.listeners {
		l(pos)
	}
}

// cellAt is the tolerant internal accessor: absent positions return
// (nil, false) instead of failing, unlike the public Get/GetConst
// (spec.md §4.D: "internal helpers tolerate absent cells").
func (s *Sheet) cellAt(pos position.Position) (*cell.Cell, bool) {
	if pos.Row < 0 || pos.Row >= len(s.rows) {
		return nil, false
	}
	row := s.rows[pos.Row]
	if pos.Col < 0 || pos.Col >= len(row) {
		return nil, false
	}
	c := row[pos.Col]
	return c, c != nil
}

func (s *Sheet) growTo(pos position.Position) {
	if pos.Row >= len(s.rows) {
		grown := make([][]*cell.Cell, pos.Row+1)
		copy(grown, s.rows)
		s.rows = grown
	}
	row := s.rows[pos.Row]
	if pos.Col >= len(row) {
		grown := make([]*cell.Cell, pos.Col+1)
		copy(grown, row)
		s.rows[pos.Row] = grown
	}
}

// materialize returns the cell at pos, allocating an empty-bodied one
// (and growing the grid) if absent.
func (s *Sheet) materialize(pos position.Position) *cell.Cell {
	s.growTo(pos)
	row := s.rows[pos.Row]
	if row[pos.Col] == nil {
		row[pos.Col] = cell.New()
	}
	return row[pos.Col]
}

// Each calls fn once for every currently allocated cell, in row-major
// order. It exists for transports (internal/server, internal/eventbus)
// that need to snapshot the whole sheet; the core itself never needs
// whole-grid iteration.
func (s *Sheet) Each(fn func(pos position.Position, c *cell.Cell)) {
	for r, rowCells := range s.rows {
		for c, cl := range rowCells {
			if cl == nil {
				continue
			}
			fn(position.Position{Row: r, Col: c}, cl)
		}
	}
}

// Get returns the cell at pos, or (nil, nil) if no cell is allocated
// there. It fails with ErrInvalidPosition if pos is invalid.
func (s *Sheet) Get(pos position.Position) (*cell.Cell, error) {
	if !pos.IsValid() {
		return nil, ErrInvalidPosition
	}
	c, _ := s.cellAt(pos)
	return c, nil
}

// GetConst is identical to Get. Go has no const-correctness distinction
// for pointer receivers; this exists only so the public surface mirrors
// spec.md §6.1's get/get_const pair one-for-one.
func (s *Sheet) GetConst(pos position.Position) (*cell.Cell, error) {
	return s.Get(pos)
}

// Set applies the write protocol of spec.md §4.E: build a candidate
// body, reject it if it would close a cycle, otherwise materialise any
// newly referenced cells, rewire edges, install the body, and invalidate
// dependents transitively. A rejected write (formula-syntax or
// circular-dependency) performs no mutation at all — the cycle check
// runs purely against cells that already exist, before anything is
// materialised or rewired, so invariant 3 (byte-identical on rejection)
// holds without needing to roll anything back.
func (s *Sheet) Set(pos position.Position, text string) error {
	if !pos.IsValid() {
		return ErrInvalidPosition
	}

	candidate, err := cell.NewBody(text)
	if err != nil {
		return err
	}

	refs := candidate.Referenced()
	if s.wouldCreateCycle(pos, refs) {
		return &CircularDependencyError{Pos: pos}
	}

	target := s.materialize(pos)
	oldRefs := target.Referenced()

	for _, p := range refs {
		s.materialize(p)
	}

	for _, old := range oldRefs {
		if oldCell, ok := s.cellAt(old); ok {
			oldCell.RemoveDependent(pos)
		}
	}
	target.SetReferenced(refs)
	for _, p := range refs {
		if depCell, ok := s.cellAt(p); ok {
			depCell.AddDependent(pos)
		}
	}

	target.Body = candidate
	s.invalidateDependents(pos)

	s.notify(pos)
	return nil
}

// Clear empties the cell at pos. If nothing else depends on it, the
// storage slot itself is dropped (invariant 5 permits this only because
// IsReferenced() is false — no other cell's referenced set still names
// pos). Otherwise the slot is retained with an empty body, since those
// dependents' formulas still hold the reference.
func (s *Sheet) Clear(pos position.Position) error {
	if err := s.Set(pos, ""); err != nil {
		return err
	}

	target, ok := s.cellAt(pos)
	if !ok || target.IsReferenced() {
		return nil
	}
	s.rows[pos.Row][pos.Col] = nil
	return nil
}

// PrintableSize returns the tightest (rows, cols) rectangle covering
// every cell whose Text() is non-empty.
func (s *Sheet) PrintableSize() (rows, cols int) {
	for r, rowCells := range s.rows {
		for c, cl := range rowCells {
			if cl == nil || cl.Body.Text() == "" {
				continue
			}
			if r+1 > rows {
				rows = r + 1
			}
			if c+1 > cols {
				cols = c + 1
			}
		}
	}
	return rows, cols
}

// PrintValues writes the printable region's values: text as-is, numbers
// in round-tripping default format, errors as their canonical tag.
// Missing cells print as empty; columns are tab-separated, rows
// newline-separated (spec.md §6.1).
func (s *Sheet) PrintValues(out io.Writer) error {
	return s.printRegion(out, func(c *cell.Cell) string {
		return c.Body.Value(s).String()
	})
}

// PrintTexts writes the printable region's raw texts in the same layout
// as PrintValues.
func (s *Sheet) PrintTexts(out io.Writer) error {
	return s.printRegion(out, func(c *cell.Cell) string {
		return c.Body.Text()
	})
}

func (s *Sheet) printRegion(out io.Writer, render func(*cell.Cell) string) error {
	rows, cols := s.PrintableSize()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				if _, err := fmt.Fprint(out, "\t"); err != nil {
					return err
				}
			}
			if cl, ok := s.cellAt(position.Position{Row: r, Col: c}); ok {
				if _, err := fmt.Fprint(out, render(cl)); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}

// Lookup implements cell.Resolver (and so ast.Lookup/formula.Lookup) for
// any formula cell this sheet hosts, per the contract of spec.md §6.2:
// an absent or empty cell contributes 0.0, a numeric cell its number, a
// numeric-looking text cell its losslessly-parsed value, a non-numeric
// text cell a Value error, an error cell its own error, and an invalid
// position a Ref error.
func (s *Sheet) Lookup(pos position.Position) (float64, error) {
	if !pos.IsValid() {
		return 0, position.NewFormulaError(position.ErrorRef)
	}

	c, ok := s.cellAt(pos)
	if !ok {
		return 0, nil
	}

	v := c.Body.Value(s)
	switch {
	case v.IsNumber():
		return v.Number(), nil
	case v.IsError():
		return 0, v.FormulaError()
	default:
		text := v.Text()
		if text == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, position.NewFormulaError(position.ErrorValue)
		}
		return n, nil
	}
}
