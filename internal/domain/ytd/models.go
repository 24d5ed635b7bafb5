package ytd

import "paygen/internal/domain/payroll"

// Record is one employee's contribution figures for one payroll period.
// At most one record exists per (staff number, period); writing again
// replaces the stored row wholesale.
type Record struct {
	StaffNumber int
	Name        string
	Period      int
	Tier1       payroll.Money
	Tier2       payroll.Money
	GrossPay    payroll.Money
}

func (r Record) validate() error {
	if r.StaffNumber <= 0 {
		return ErrInvalidStaffNumber
	}
	if r.Period <= 0 {
		return ErrInvalidPeriod
	}
	return nil
}

// Cumulative is the derived sum of a staff member's records across all
// periods up to and including a given period. It is recomputed on
// demand and never stored.
type Cumulative struct {
	StaffNumber int
	Tier1       payroll.Money
	Tier2       payroll.Money
	GrossPay    payroll.Money
}
