package sheet

import (
	"errors"
	"fmt"

	"cellgrid/position"
)

// ErrInvalidPosition is returned by any public operation given a
// position that fails Position.IsValid.
var ErrInvalidPosition = errors.New("sheet: invalid position")

// CircularDependencyError reports that a write was rejected because it
// would close a cycle in the dependency graph. The write is atomic: no
// state changed before this error was returned (spec.md §7, invariant 3).
type CircularDependencyError struct {
	Pos position.Position
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("sheet: write to %s would create a circular dependency", e.Pos)
}
