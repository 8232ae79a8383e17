package cell

import (
	"strconv"

	"cellgrid/position"
)

// Value is the result of reading a cell: exactly one of a text string, a
// finite float64, or a position.FormulaError.
type Value struct {
	text    string
	number  float64
	ferr    position.FormulaError
	variant valueVariant
}

type valueVariant uint8

const (
	variantText valueVariant = iota
	variantNumber
	variantError
)

// TextValue wraps a string result.
func TextValue(s string) Value { return Value{text: s, variant: variantText} }

// NumberValue wraps a finite float64 result.
func NumberValue(n float64) Value { return Value{number: n, variant: variantNumber} }

// ErrorValue wraps a FormulaError result.
func ErrorValue(e position.FormulaError) Value { return Value{ferr: e, variant: variantError} }

// IsText, IsNumber, IsError report the Value's variant.
func (v Value) IsText() bool   { return v.variant == variantText }
func (v Value) IsNumber() bool { return v.variant == variantNumber }
func (v Value) IsError() bool  { return v.variant == variantError }

// Text returns the underlying text; valid only if IsText().
func (v Value) Text() string { return v.text }

// Number returns the underlying number; valid only if IsNumber().
func (v Value) Number() float64 { return v.number }

// FormulaError returns the underlying error; valid only if IsError().
func (v Value) FormulaError() position.FormulaError { return v.ferr }

// String renders the value the way Sheet.PrintValues does: text as-is,
// numbers in round-tripping host-default format, errors as their
// canonical tag (spec.md §6.1/§6.3).
func (v Value) String() string {
	switch v.variant {
	case variantText:
		return v.text
	case variantNumber:
		return strconv.FormatFloat(v.number, 'g', -1, 64)
	case variantError:
		return v.ferr.String()
	default:
		return ""
	}
}
