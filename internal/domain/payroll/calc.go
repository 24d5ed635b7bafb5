package payroll

// Compute calculates Ghana PAYE income tax, SSF contributions and net
// income for one month. All inputs and outputs are pesewas. The
// function is pure: same inputs, same breakdown, no side effects.
// Negative inputs are clamped to zero rather than rejected.
func Compute(grossIncome, untaxedBonus Money, opts Options) (Breakdown, error) {
	if err := opts.Validate(); err != nil {
		return Breakdown{}, err
	}

	if grossIncome < 0 {
		grossIncome = 0
	}
	if untaxedBonus < 0 {
		untaxedBonus = 0
	}

	round := opts.Rounding

	employeeSSF := round.Div(grossIncome*employeeSSFPerMille, 1000)
	taxableIncome := grossIncome - employeeSSF

	var incomeTax Money
	remaining := taxableIncome
	for _, band := range payeBands {
		if remaining <= 0 {
			break
		}
		taxableAmount := remaining
		if band.width > 0 && taxableAmount > band.width {
			taxableAmount = band.width
		}
		incomeTax += round.Div(taxableAmount*Money(band.rate), 1000)
		remaining -= taxableAmount
	}

	var tier2 Money
	if opts.CalcTier2 {
		tier2 = round.Div(grossIncome*tier2Percent, 100)
	}
	employerSSF := round.Div(grossIncome*employerSSFPercent, 100)

	bonusTax := round.Div(untaxedBonus*bonusTaxPercent, 100)
	netBonus := untaxedBonus - bonusTax

	totalDeductions := employeeSSF + incomeTax
	totalContributions := tier2 + employerSSF

	return Breakdown{
		GrossIncome:        grossIncome,
		EmployeeSSF:        employeeSSF,
		IncomeTax:          incomeTax,
		Tier2:              tier2,
		EmployerSSF:        employerSSF,
		UntaxedBonus:       untaxedBonus,
		BonusTax:           bonusTax,
		TotalDeductions:    totalDeductions,
		TotalContributions: totalContributions,
		TotalIncome:        grossIncome + untaxedBonus,
		NetIncome:          grossIncome - totalDeductions + netBonus,
	}, nil
}
