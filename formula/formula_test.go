package formula

import (
	"testing"

	"cellgrid/position"
)

func constLookup(values map[position.Position]float64) Lookup {
	return func(pos position.Position) (float64, error) {
		if v, ok := values[pos]; ok {
			return v, nil
		}
		return 0, nil
	}
}

func TestParseAndExecuteArithmetic(t *testing.T) {
	f, err := Parse("1+2*3")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	v, err := f.Execute(constLookup(nil))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if v != 7 {
		t.Errorf("got %v, want 7", v)
	}
}

func TestReferencedCellsDeduplicatedAndSorted(t *testing.T) {
	f, err := Parse("B1+A1+B1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	refs := f.ReferencedCells()
	want := []position.Position{{Row: 0, Col: 0}, {Row: 0, Col: 1}}
	if len(refs) != len(want) {
		t.Fatalf("got %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %v, want %v", i, refs[i], want[i])
		}
	}
}

func TestDivisionByZero(t *testing.T) {
	f, err := Parse("1/0")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	_, err = f.Execute(constLookup(nil))
	ferr, ok := err.(position.FormulaError)
	if !ok || ferr.Kind != position.ErrorArithmetic {
		t.Fatalf("got %v, want ArithmeticError", err)
	}
}

func TestLookupErrorPropagates(t *testing.T) {
	f, err := Parse("A1*2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	lookup := func(position.Position) (float64, error) {
		return 0, position.NewFormulaError(position.ErrorValue)
	}
	_, err = f.Execute(lookup)
	ferr, ok := err.(position.FormulaError)
	if !ok || ferr.Kind != position.ErrorValue {
		t.Fatalf("got %v, want ValueError propagated from lookup", err)
	}
}

func TestSyntaxError(t *testing.T) {
	if _, err := Parse("1+"); err == nil {
		t.Fatal("expected syntax error")
	}
	if _, err := Parse("(1+2"); err == nil {
		t.Fatal("expected syntax error for unbalanced parens")
	}
}

func TestPrintCanonicalForm(t *testing.T) {
	f, err := Parse("A1+B1*2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got, want := f.String(), "A1+B1*2"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrintParenthesizesLowerPrecedenceChild(t *testing.T) {
	f, err := Parse("(A1+B1)*2")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got, want := f.String(), "(A1+B1)*2"; got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestUnaryMinus(t *testing.T) {
	f, err := Parse("-A1+5")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	v, err := f.Execute(constLookup(map[position.Position]float64{{Row: 0, Col: 0}: 3}))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if v != 2 {
		t.Errorf("got %v, want 2", v)
	}
}
