package payroll

// Statutory rates. Per-mille rates divide by 1000, percent rates by 100.
const (
	employeeSSFPerMille = 55 // 5.5% of gross
	tier2Percent        = 5  // 5% of gross, optional
	employerSSFPercent  = 13 // 13% of gross, employer side
	bonusTaxPercent     = 5  // 5% flat on bonus
)

type taxBand struct {
	width Money // 0 marks the unbounded top band
	rate  int64 // per mille
}

// Ghana monthly PAYE bands, 2024. Widths are in pesewas and the table
// is walked strictly in order.
var payeBands = []taxBand{
	{49000, 0},
	{11000, 50},
	{13000, 100},
	{316667, 175},
	{1600000, 250},
	{3052000, 300},
	{0, 350},
}
