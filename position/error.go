package position

// ErrorKind enumerates the three arithmetic error categories a formula
// can produce during evaluation.
type ErrorKind uint8

const (
	// ErrorRef marks a reference to an invalid position.
	ErrorRef ErrorKind = iota + 1
	// ErrorValue marks non-numeric text used where a number is required.
	ErrorValue
	// ErrorArithmetic marks division by zero or another arithmetic failure.
	ErrorArithmetic
)

var errorText = map[ErrorKind]string{
	ErrorRef:        "#REF!",
	ErrorValue:      "#VALUE!",
	ErrorArithmetic: "#ARITHM!",
}

// FormulaError is a tagged arithmetic error. Equality is by Kind alone;
// it is data passed around as a cell's cached value, not a Go failure —
// see cell.Value and the cell/sheet packages, which catch it at the
// formula boundary instead of letting it escape as an error return.
type FormulaError struct {
	Kind ErrorKind
}

// NewFormulaError builds a FormulaError of the given kind.
func NewFormulaError(kind ErrorKind) FormulaError {
	return FormulaError{Kind: kind}
}

// Error implements the error interface so a FormulaError can also be
// returned as a Go error where that's convenient (e.g. from the formula
// executor's Eval/Execute), without changing its value semantics.
func (e FormulaError) Error() string {
	return e.String()
}

// String is the canonical textual form: "#REF!", "#VALUE!", "#ARITHM!".
func (e FormulaError) String() string {
	if s, ok := errorText[e.Kind]; ok {
		return s
	}
	return "#ERROR!"
}

// Equal reports whether two FormulaErrors share a kind.
func (e FormulaError) Equal(o FormulaError) bool {
	return e.Kind == o.Kind
}
