// Package formula is the external formula-language collaborator spec.md
// §6.2 describes: it parses the text following a cell's leading '=' and
// exposes referenced positions, a canonical pretty-print, and numeric
// evaluation against a value-lookup callback. Its grammar (arithmetic
// over numbers, cell references, and parentheses) is not part of the
// core's contract — only this package's three operations are.
package formula

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"cellgrid/formula/ast"
	"cellgrid/formula/parser"
	"cellgrid/position"
)

// SyntaxError reports that a formula's source failed to parse.
type SyntaxError struct {
	Source string
	Errors []string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("formula: syntax error in %q: %s", e.Source, strings.Join(e.Errors, "; "))
}

// Lookup is re-exported from ast so callers need not import both packages.
type Lookup = ast.Lookup

// Formula is a parsed formula expression, owning its AST.
type Formula struct {
	src  string
	root ast.Node
}

// Parse parses expr (the text after the leading '=') into a Formula, or
// returns a *SyntaxError if it doesn't conform to the grammar.
func Parse(expr string) (*Formula, error) {
	root, errs := parser.ParseExpression(expr)
	if len(errs) > 0 || root == nil {
		return nil, &SyntaxError{Source: expr, Errors: errs}
	}
	return &Formula{src: expr, root: root}, nil
}

// ReferencedCells returns the deduplicated, sorted set of valid positions
// this formula reads, per spec.md §6.2 ("the core deduplicates adjacent
// duplicates after validity filtering"). Invalid positions are dropped
// here, but still surface as a Ref error at Execute time because Eval
// walks the full tree, not this filtered list.
func (f *Formula) ReferencedCells() []position.Position {
	raw := f.root.Cells(nil)

	valid := raw[:0:0]
	for _, p := range raw {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Less(valid[j]) })

	out := valid[:0]
	for i, p := range valid {
		if i == 0 || p != valid[i-1] {
			out = append(out, p)
		}
	}
	return out
}

// Print writes the formula's canonical, re-parseable expression text
// (without the leading '=') to out.
func (f *Formula) Print(out *bytes.Buffer) {
	f.root.Print(out)
}

// String renders the canonical expression text.
func (f *Formula) String() string {
	var buf bytes.Buffer
	f.Print(&buf)
	return buf.String()
}

// Execute evaluates the formula, calling lookup for every referenced
// cell. A FormulaError raised anywhere during evaluation is caught here
// at the formula boundary and returned as an error value — callers
// (cell.Body) are expected to type-assert it into position.FormulaError
// and cache it, never to treat it as an operational failure.
func (f *Formula) Execute(lookup Lookup) (float64, error) {
	return f.root.Eval(lookup)
}
