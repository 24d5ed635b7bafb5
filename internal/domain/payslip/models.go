package payslip

import (
	"github.com/shopspring/decimal"
)

// Row is one employee line as delivered by the external roster source.
// Monetary amounts arrive in cedis; the staff number arrives as the raw
// cell text and must parse as an integer. Gross and bonus are pointers
// because an absent cell is a row failure, not a zero.
type Row struct {
	Name          string
	StaffNumber   string
	GrossIncome   *decimal.Decimal
	UntaxedBonus  *decimal.Decimal
	Email         string
	TIN           string
	Position      string
	Department    string
	AccountNumber string
}

// Slip is the fully computed field set handed to the renderer and
// returned to callers. Every monetary field is in cedis; conversion
// from pesewas happens once, when the slip is assembled.
type Slip struct {
	PayslipNumber string `json:"payslipNumber"`
	PayslipDate   string `json:"payslipDate"`
	PayslipPeriod string `json:"payslipPeriod"`
	Month         string `json:"month"`

	Name          string `json:"name"`
	StaffNumber   int    `json:"staffNumber"`
	Email         string `json:"email,omitempty"`
	TIN           string `json:"tin,omitempty"`
	Position      string `json:"position,omitempty"`
	Department    string `json:"department,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`

	GrossIncome        decimal.Decimal `json:"grossIncome"`
	EmployeeSSF        decimal.Decimal `json:"employeeSsf"`
	IncomeTax          decimal.Decimal `json:"incomeTax"`
	Tier2              decimal.Decimal `json:"tier2"`
	EmployerSSF        decimal.Decimal `json:"employerSsf"`
	UntaxedBonus       decimal.Decimal `json:"untaxedBonus"`
	BonusTax           decimal.Decimal `json:"bonusTax"`
	TotalDeductions    decimal.Decimal `json:"totalDeductions"`
	TotalContributions decimal.Decimal `json:"totalContributions"`
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	NetIncome          decimal.Decimal `json:"netIncome"`

	YtdTier1    decimal.Decimal `json:"ytdTier1"`
	YtdTier2    decimal.Decimal `json:"ytdTier2"`
	YtdGrossPay decimal.Decimal `json:"ytdGrossPay"`

	FilePath string `json:"filePath,omitempty"`
}

// Progress is pushed to the observer after each rendered slip.
type Progress struct {
	Counter  int
	Total    int
	Name     string
	Email    string
	Month    string
	FilePath string
}

// ProgressFunc receives per-row progress. It may be nil.
type ProgressFunc func(Progress)
