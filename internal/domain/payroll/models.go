package payroll

// Options configures a single tax computation. Both knobs are per call,
// never process-global.
type Options struct {
	Rounding  RoundingMode
	CalcTier2 bool
}

func DefaultOptions() Options {
	return Options{Rounding: RoundNearest, CalcTier2: true}
}

// Validate fails before any arithmetic when the rounding mode is not
// one of the recognized identifiers.
func (o Options) Validate() error {
	if !o.Rounding.Valid() {
		return ErrInvalidRounding
	}
	return nil
}

// Breakdown is the itemized result of one computation for one employee
// for one period. It is complete once returned and never mutated.
type Breakdown struct {
	GrossIncome        Money
	EmployeeSSF        Money
	IncomeTax          Money
	Tier2              Money
	EmployerSSF        Money
	UntaxedBonus       Money
	BonusTax           Money
	TotalDeductions    Money
	TotalContributions Money
	TotalIncome        Money
	NetIncome          Money
}
