package cell

import (
	"testing"

	"cellgrid/position"
)

type mapResolver map[position.Position]float64

func (m mapResolver) Lookup(pos position.Position) (float64, error) {
	if v, ok := m[pos]; ok {
		return v, nil
	}
	return 0, nil
}

func TestNewBodyEmpty(t *testing.T) {
	b, err := NewBody("")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if b.Kind() != KindEmpty {
		t.Errorf("Kind() = %v, want KindEmpty", b.Kind())
	}
	if got := b.Text(); got != "" {
		t.Errorf("Text() = %q, want \"\"", got)
	}
	if v := b.Value(mapResolver{}); v.String() != "" {
		t.Errorf("Value() = %q, want \"\"", v.String())
	}
	if !b.HasCache() {
		t.Errorf("HasCache() on empty body should be true (never re-entered)")
	}
}

func TestNewBodyLiteralText(t *testing.T) {
	b, err := NewBody("hello")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if b.Kind() != KindText {
		t.Errorf("Kind() = %v, want KindText", b.Kind())
	}
	if b.Text() != "hello" {
		t.Errorf("Text() = %q, want hello", b.Text())
	}
	if v := b.Value(mapResolver{}); v.Text() != "hello" {
		t.Errorf("Value().Text() = %q, want hello", v.Text())
	}
}

func TestNewBodyEscapeSign(t *testing.T) {
	b, err := NewBody("'=1+2")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if got, want := b.Text(), "'=1+2"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got, want := b.Value(mapResolver{}).Text(), "=1+2"; got != want {
		t.Errorf("Value().Text() = %q, want %q", got, want)
	}
}

func TestNewBodySingleQuoteOnly(t *testing.T) {
	b, err := NewBody("'")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if got := b.Text(); got != "'" {
		t.Errorf("Text() = %q, want %q", got, "'")
	}
	if got := b.Value(mapResolver{}).Text(); got != "" {
		t.Errorf("Value().Text() = %q, want \"\"", got)
	}
}

func TestNewBodySingleEqualsIsText(t *testing.T) {
	b, err := NewBody("=")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if b.Kind() != KindText {
		t.Errorf("Kind() = %v, want KindText for a bare '='", b.Kind())
	}
	if b.Text() != "=" {
		t.Errorf("Text() = %q, want '='", b.Text())
	}
}

func TestNewBodyFormulaEvaluatesAndCaches(t *testing.T) {
	b, err := NewBody("=A1+1")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if b.Kind() != KindFormula {
		t.Fatalf("Kind() = %v, want KindFormula", b.Kind())
	}
	if b.HasCache() {
		t.Fatalf("fresh formula body should start with no cache")
	}

	resolver := mapResolver{{Row: 0, Col: 0}: 5}
	v := b.Value(resolver)
	if !v.IsNumber() || v.Number() != 6 {
		t.Fatalf("Value() = %v, want number 6", v)
	}
	if !b.HasCache() {
		t.Fatalf("expected cache to be populated after Value()")
	}

	// Mutate the resolver; cached value must not change until Invalidate.
	resolver[position.Position{Row: 0, Col: 0}] = 100
	if v2 := b.Value(resolver); v2.Number() != 6 {
		t.Fatalf("Value() after mutation (no invalidate) = %v, want cached 6", v2)
	}

	b.Invalidate()
	if b.HasCache() {
		t.Fatalf("expected cache cleared after Invalidate()")
	}
	if v3 := b.Value(resolver); v3.Number() != 101 {
		t.Fatalf("Value() after Invalidate = %v, want 101", v3)
	}
}

func TestNewBodyFormulaSyntaxError(t *testing.T) {
	if _, err := NewBody("=1+"); err == nil {
		t.Fatal("expected formula-syntax error")
	}
}

func TestBodyTextRoundTripsFormula(t *testing.T) {
	b, err := NewBody("=A1+B1*2")
	if err != nil {
		t.Fatalf("NewBody error: %v", err)
	}
	if got, want := b.Text(), "=A1+B1*2"; got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}
