// Package cell implements the per-cell content model of spec.md §4.C: a
// tagged union of empty, text, and formula bodies, each with its own
// rules for text(), value(), referenced(), and cache invalidation.
package cell

import (
	"cellgrid/formula"
	"cellgrid/position"
)

// Kind discriminates a Body's variant.
type Kind uint8

const (
	// KindEmpty produces "" for both text and value, has no references
	// and no cache.
	KindEmpty Kind = iota
	// KindText holds raw text; its value strips one leading escape
	// character ('\'') if present.
	KindText
	// KindFormula owns a parsed formula expression and an optional
	// memoised value.
	KindFormula
)

// Resolver answers a formula's cell-reference lookups. It is implemented
// by sheet.Sheet; cell never imports sheet, it only depends on this
// narrow interface, per the ownership rule in spec.md §9 ("cyclic graph
// of cells... encode relations, never ownership").
type Resolver interface {
	// Lookup satisfies the ast.Lookup / formula.Lookup contract of
	// spec.md §6.2 for a single referenced position.
	Lookup(pos position.Position) (float64, error)
}

// Body is a cell's content: a tagged union rather than a virtual
// hierarchy (spec.md §9), since the variant is always known at each call
// site and only the formula variant owns an AST and a cache.
type Body struct {
	kind    Kind
	text    string           // KindText: the raw input, escape included
	formula *formula.Formula // KindFormula
	cached  *Value           // KindFormula: nil means no cached value
}

// EmptyBody is the zero-value body every newly materialised cell starts
// with.
var EmptyBody = Body{kind: KindEmpty}

// NewBody constructs the body implied by a raw input string, per the
// construction rules of spec.md §4.C. An error return means the text
// begins with '=' (and has more than one character) but failed to parse;
// the caller must not install the candidate and must leave all state
// unchanged (spec.md §7).
func NewBody(text string) (Body, error) {
	switch {
	case text == "":
		return EmptyBody, nil
	case len(text) > 1 && text[0] == '=':
		f, err := formula.Parse(text[1:])
		if err != nil {
			return Body{}, err
		}
		return Body{kind: KindFormula, formula: f}, nil
	default:
		return Body{kind: KindText, text: text}, nil
	}
}

// Kind reports the body's variant.
func (b *Body) Kind() Kind { return b.kind }

// Text returns the original input string for text/empty bodies, or the
// re-printed "=<canonical expression>" for a formula body.
func (b *Body) Text() string {
	switch b.kind {
	case KindText:
		return b.text
	case KindFormula:
		return "=" + b.formula.String()
	default:
		return ""
	}
}

const escapeSign = '\''

// Value returns the cell's current Value, evaluating and memoising a
// formula body's cache on first read. Resolver is consulted only for
// formula bodies; it reenters the owning sheet (spec.md §4.E
// "Evaluation reenters the sheet").
func (b *Body) Value(r Resolver) Value {
	switch b.kind {
	case KindText:
		if len(b.text) > 0 && b.text[0] == escapeSign {
			return TextValue(b.text[1:])
		}
		return TextValue(b.text)
	case KindFormula:
		if b.cached != nil {
			return *b.cached
		}
		v := b.evaluate(r)
		b.cached = &v
		return v
	default:
		return TextValue("")
	}
}

func (b *Body) evaluate(r Resolver) Value {
	num, err := b.formula.Execute(r.Lookup)
	if err != nil {
		if ferr, ok := err.(position.FormulaError); ok {
			return ErrorValue(ferr)
		}
		return ErrorValue(position.NewFormulaError(position.ErrorValue))
	}
	return NumberValue(num)
}

// Referenced returns the deduplicated, sorted, valid positions this body
// reads. Only a formula body has any.
func (b *Body) Referenced() []position.Position {
	if b.kind != KindFormula {
		return nil
	}
	return b.formula.ReferencedCells()
}

// Invalidate clears a formula body's cache. It is a no-op on empty/text
// bodies.
func (b *Body) Invalidate() {
	if b.kind == KindFormula {
		b.cached = nil
	}
}

// HasCache reports whether a formula cache is populated. Non-formula
// bodies always answer true, so the invalidator's cache-pruning fast
// path never re-enters them (spec.md §4.C, §4.E).
func (b *Body) HasCache() bool {
	if b.kind != KindFormula {
		return true
	}
	return b.cached != nil
}
