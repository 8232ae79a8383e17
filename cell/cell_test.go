package cell

import (
	"testing"

	"cellgrid/position"
)

func TestNewCellIsEmptyWithNoEdges(t *testing.T) {
	c := New()
	if c.Body.Kind() != KindEmpty {
		t.Errorf("new cell body kind = %v, want KindEmpty", c.Body.Kind())
	}
	if len(c.Referenced()) != 0 || len(c.Dependents()) != 0 {
		t.Errorf("new cell should have no edges")
	}
	if c.IsReferenced() {
		t.Errorf("new cell should not be referenced")
	}
}

func TestDependentsAddRemove(t *testing.T) {
	c := New()
	a1 := position.Position{Row: 0, Col: 0}
	b1 := position.Position{Row: 0, Col: 1}

	c.AddDependent(a1)
	c.AddDependent(b1)
	if !c.IsReferenced() {
		t.Fatal("expected IsReferenced() true after AddDependent")
	}
	if len(c.Dependents()) != 2 {
		t.Fatalf("got %d dependents, want 2", len(c.Dependents()))
	}

	c.RemoveDependent(a1)
	deps := c.Dependents()
	if len(deps) != 1 || deps[0] != b1 {
		t.Fatalf("got %v, want [%v]", deps, b1)
	}
}

func TestSetReferencedReplacesWholesale(t *testing.T) {
	c := New()
	a1 := position.Position{Row: 0, Col: 0}
	b1 := position.Position{Row: 0, Col: 1}
	c1 := position.Position{Row: 0, Col: 2}

	c.SetReferenced([]position.Position{a1, b1})
	if len(c.Referenced()) != 2 {
		t.Fatalf("got %d referenced, want 2", len(c.Referenced()))
	}

	c.SetReferenced([]position.Position{c1})
	refs := c.Referenced()
	if len(refs) != 1 || refs[0] != c1 {
		t.Fatalf("got %v, want [%v]", refs, c1)
	}
}
