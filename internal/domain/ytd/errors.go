package ytd

import "errors"

var (
	ErrInvalidStaffNumber = errors.New("staff number must be a positive integer")
	ErrInvalidPeriod      = errors.New("period number must be a positive integer")
)
