package schema

import "fmt"

// ErrMismatch indicates that a requested attribute is absent from the input
// table or that a cell holds a value outside the attribute's declared domain.
// Normalization fails fast on the first mismatch.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrMismatch struct {
	Attribute string
	Value     string
	Row       int
	cause     error
}

func (e *ErrMismatch) Error() string {
	if e.Value == "" && e.Row < 0 {
		return fmt.Sprintf("schema mismatch: attribute %q not found", e.Attribute)
	}
	return fmt.Sprintf("schema mismatch: attribute %q row %d has unexpected value %q", e.Attribute, e.Row, e.Value)
}

func (e *ErrMismatch) Unwrap() error { return e.cause }
