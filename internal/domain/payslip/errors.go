package payslip

import (
	"errors"
	"fmt"
)

var ErrInvalidPeriod = errors.New("period must be a month number between 1 and 12")

// MissingFieldError marks a source row that cannot be processed: a
// staff number that is not numeric, or an absent gross/bonus amount.
// One bad row stops the whole period run so the source data gets fixed
// instead of silently producing partial payroll.
type MissingFieldError struct {
	Field  string
	Detail string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row field %q: %s", e.Field, e.Detail)
}

// RowError attaches employee and period context to the error that
// stopped a run before it propagates to the caller.
type RowError struct {
	Period int
	Row    int
	Name   string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("period %d row %d (%s): %v", e.Period, e.Row, e.Name, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
