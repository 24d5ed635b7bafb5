package payroll

import "testing"

func TestComputeMonthlyBreakdown(t *testing.T) {
	// GHS 5000.00 gross, GHS 500.00 bonus.
	got, err := Compute(500000, 50000, DefaultOptions())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	expected := Breakdown{
		GrossIncome:        500000,
		EmployeeSSF:        27500,
		IncomeTax:          77975,
		Tier2:              25000,
		EmployerSSF:        65000,
		UntaxedBonus:       50000,
		BonusTax:           2500,
		TotalDeductions:    105475,
		TotalContributions: 90000,
		TotalIncome:        550000,
		NetIncome:          442025,
	}
	if got != expected {
		t.Fatalf("breakdown mismatch:\n got %+v\nwant %+v", got, expected)
	}
}

func TestComputeRoundingModes(t *testing.T) {
	cases := []struct {
		mode      RoundingMode
		incomeTax Money
		netIncome Money
	}{
		{RoundNearest, 77975, 442025},
		{RoundTruncate, 77974, 442026},
		{RoundCeil, 77976, 442024},
	}

	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			opts := Options{Rounding: tc.mode, CalcTier2: true}
			got, err := Compute(500000, 50000, opts)
			if err != nil {
				t.Fatalf("compute failed: %v", err)
			}
			if got.IncomeTax != tc.incomeTax {
				t.Fatalf("expected income tax %d, got %d", tc.incomeTax, got.IncomeTax)
			}
			if got.NetIncome != tc.netIncome {
				t.Fatalf("expected net income %d, got %d", tc.netIncome, got.NetIncome)
			}
		})
	}
}

func TestComputeBandTieRoundsUp(t *testing.T) {
	// GHS 1000.00 gross leaves 21500 pesewas in the 17.5% band:
	// 21500 * 175 / 1000 = 3762.5, a tie that nearest resolves upward.
	nearest, err := Compute(100000, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if nearest.IncomeTax != 5613 {
		t.Fatalf("expected income tax 5613, got %d", nearest.IncomeTax)
	}

	truncated, err := Compute(100000, 0, Options{Rounding: RoundTruncate, CalcTier2: true})
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if truncated.IncomeTax != 5612 {
		t.Fatalf("expected income tax 5612, got %d", truncated.IncomeTax)
	}
}

func TestComputeZeroInputs(t *testing.T) {
	got, err := Compute(0, 0, DefaultOptions())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if got != (Breakdown{}) {
		t.Fatalf("expected all-zero breakdown, got %+v", got)
	}
}

func TestComputeClampsNegativeInputs(t *testing.T) {
	got, err := Compute(-100, -50, DefaultOptions())
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if got != (Breakdown{}) {
		t.Fatalf("expected all-zero breakdown, got %+v", got)
	}
}

func TestComputeTier2Skipped(t *testing.T) {
	got, err := Compute(500000, 0, Options{Rounding: RoundNearest, CalcTier2: false})
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if got.Tier2 != 0 {
		t.Fatalf("expected zero tier 2, got %d", got.Tier2)
	}
	if got.TotalContributions != got.EmployerSSF {
		t.Fatalf("contributions should equal employer SSF alone, got %d", got.TotalContributions)
	}
}

func TestComputeRejectsUnknownRounding(t *testing.T) {
	_, err := Compute(500000, 0, Options{Rounding: "banker", CalcTier2: true})
	if err != ErrInvalidRounding {
		t.Fatalf("expected ErrInvalidRounding, got %v", err)
	}
}

func TestComputeNetIncomeIdentity(t *testing.T) {
	grosses := []Money{0, 1, 99, 48999, 49000, 49001, 100000, 472500, 500000, 5000000, 503200000}
	bonuses := []Money{0, 1, 12345, 50000}

	for _, mode := range []RoundingMode{RoundNearest, RoundTruncate, RoundCeil} {
		for _, gross := range grosses {
			for _, bonus := range bonuses {
				opts := Options{Rounding: mode, CalcTier2: true}
				got, err := Compute(gross, bonus, opts)
				if err != nil {
					t.Fatalf("compute failed: %v", err)
				}
				want := gross - (got.EmployeeSSF + got.IncomeTax) + (bonus - got.BonusTax)
				if got.NetIncome != want {
					t.Fatalf("mode %s gross %d bonus %d: net %d, want %d",
						mode, gross, bonus, got.NetIncome, want)
				}
				if got.TotalIncome != gross+bonus {
					t.Fatalf("total income mismatch for gross %d bonus %d", gross, bonus)
				}

				again, err := Compute(gross, bonus, opts)
				if err != nil {
					t.Fatalf("compute failed: %v", err)
				}
				if again != got {
					t.Fatalf("compute is not deterministic for gross %d bonus %d", gross, bonus)
				}
			}
		}
	}
}
