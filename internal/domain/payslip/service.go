package payslip

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"paygen/internal/domain/payroll"
	"paygen/internal/domain/ytd"
)

// Renderer is the document-store collaborator: it turns a computed
// slip into a stored document and returns its path.
type Renderer interface {
	Render(ctx context.Context, slip Slip) (string, error)
}

// Service drives one period's roster through compute, ledger update
// and rendering. It owns no long-lived state; the ledger owns all
// persisted records.
type Service struct {
	ledger   ytd.StoreAPI
	renderer Renderer
	now      func() time.Time
}

func NewService(ledger ytd.StoreAPI, renderer Renderer) *Service {
	return &Service{ledger: ledger, renderer: renderer, now: time.Now}
}

// Preview computes a breakdown for ad-hoc amounts in cedis without
// touching the ledger or rendering anything.
func (s *Service) Preview(grossIncome, untaxedBonus decimal.Decimal, opts payroll.Options) (payroll.Breakdown, error) {
	return payroll.Compute(payroll.FromCedis(grossIncome), payroll.FromCedis(untaxedBonus), opts)
}

// Run processes rows for one period in the order supplied. The first
// bad row aborts the run with its context attached; rows already
// written to the ledger stay committed. Cancellation is cooperative:
// ctx is checked between rows, never mid-row, so no half-written
// record is ever left behind.
func (s *Service) Run(ctx context.Context, period int, rows []Row, opts payroll.Options, progress ProgressFunc) ([]Slip, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if period < 1 || period > 12 {
		return nil, ErrInvalidPeriod
	}

	header := newPeriodHeader(period, s.now())
	total := len(rows)
	slips := make([]Slip, 0, total)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return slips, err
		}

		slip, err := s.processRow(ctx, period, header, row, opts)
		if err != nil {
			return slips, &RowError{Period: period, Row: i + 1, Name: row.Name, Err: err}
		}
		slips = append(slips, slip)

		slog.Info("payslip generated",
			"period", period, "staffNumber", slip.StaffNumber, "name", slip.Name, "file", slip.FilePath)

		if progress != nil {
			progress(Progress{
				Counter:  i + 1,
				Total:    total,
				Name:     slip.Name,
				Email:    slip.Email,
				Month:    header.month,
				FilePath: slip.FilePath,
			})
		}
	}

	return slips, nil
}

func (s *Service) processRow(ctx context.Context, period int, header periodHeader, row Row, opts payroll.Options) (Slip, error) {
	staffNumber, err := parseStaffNumber(row.StaffNumber)
	if err != nil {
		return Slip{}, err
	}
	if row.GrossIncome == nil {
		return Slip{}, &MissingFieldError{Field: "gross_income", Detail: "amount is missing, at least put 0 there"}
	}
	if row.UntaxedBonus == nil {
		return Slip{}, &MissingFieldError{Field: "untaxed_bonus", Detail: "amount is missing, at least put 0 there"}
	}

	breakdown, err := payroll.Compute(payroll.FromCedis(*row.GrossIncome), payroll.FromCedis(*row.UntaxedBonus), opts)
	if err != nil {
		return Slip{}, err
	}

	if err := s.ledger.WriteRecord(ctx, ytd.Record{
		StaffNumber: staffNumber,
		Name:        row.Name,
		Period:      period,
		Tier1:       breakdown.EmployeeSSF,
		Tier2:       breakdown.Tier2,
		GrossPay:    breakdown.GrossIncome,
	}); err != nil {
		return Slip{}, err
	}

	cumulative, err := s.ledger.Cumulative(ctx, staffNumber, period)
	if err != nil {
		return Slip{}, err
	}

	slip := assembleSlip(header, row, staffNumber, breakdown, cumulative)

	if s.renderer != nil {
		path, err := s.renderer.Render(ctx, slip)
		if err != nil {
			return Slip{}, err
		}
		slip.FilePath = path
	}

	return slip, nil
}

// assembleSlip merges the breakdown and cumulative figures into the
// outgoing field set, converting to cedis in one place.
func assembleSlip(header periodHeader, row Row, staffNumber int, b payroll.Breakdown, c ytd.Cumulative) Slip {
	return Slip{
		PayslipNumber: header.number,
		PayslipDate:   header.date,
		PayslipPeriod: header.span,
		Month:         header.month,

		Name:          row.Name,
		StaffNumber:   staffNumber,
		Email:         row.Email,
		TIN:           row.TIN,
		Position:      row.Position,
		Department:    row.Department,
		AccountNumber: row.AccountNumber,

		GrossIncome:        b.GrossIncome.Cedis(),
		EmployeeSSF:        b.EmployeeSSF.Cedis(),
		IncomeTax:          b.IncomeTax.Cedis(),
		Tier2:              b.Tier2.Cedis(),
		EmployerSSF:        b.EmployerSSF.Cedis(),
		UntaxedBonus:       b.UntaxedBonus.Cedis(),
		BonusTax:           b.BonusTax.Cedis(),
		TotalDeductions:    b.TotalDeductions.Cedis(),
		TotalContributions: b.TotalContributions.Cedis(),
		TotalIncome:        b.TotalIncome.Cedis(),
		NetIncome:          b.NetIncome.Cedis(),

		YtdTier1:    c.Tier1.Cedis(),
		YtdTier2:    c.Tier2.Cedis(),
		YtdGrossPay: c.GrossPay.Cedis(),
	}
}

func parseStaffNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, &MissingFieldError{Field: "staff_number", Detail: "it must be a positive number"}
	}
	return n, nil
}
