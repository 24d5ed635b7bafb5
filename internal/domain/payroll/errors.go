package payroll

import "errors"

var ErrInvalidRounding = errors.New(`rounding mode must be "nearest", "truncate" or "ceil"`)
