package payslip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	cryptoutil "paygen/internal/platform/crypto"
)

// PDFRenderer writes one PDF per slip under dir/<Month>/. When an
// encryption key is configured the plaintext file is replaced by an
// AES-GCM sealed .enc file.
type PDFRenderer struct {
	dir    string
	crypto *cryptoutil.Service
}

func NewPDFRenderer(dir string, crypto *cryptoutil.Service) *PDFRenderer {
	return &PDFRenderer{dir: dir, crypto: crypto}
}

func (r *PDFRenderer) Render(ctx context.Context, slip Slip) (string, error) {
	outDir := filepath.Join(r.dir, slip.Month)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	fileName := fmt.Sprintf("%s_%s_Payslip.pdf", strings.ReplaceAll(slip.Name, " ", "_"), slip.Month)
	filePath := filepath.Join(outDir, fileName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, slip.PayslipDate)
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Payslip No: %s", slip.PayslipNumber))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", slip.PayslipPeriod))
	pdf.Ln(10)

	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (Staff No. %d)", slip.Name, slip.StaffNumber))
	pdf.Ln(6)
	if slip.Position != "" || slip.Department != "" {
		pdf.Cell(0, 7, fmt.Sprintf("%s, %s", slip.Position, slip.Department))
		pdf.Ln(6)
	}
	if slip.Email != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Email: %s", slip.Email))
		pdf.Ln(6)
	}
	if slip.TIN != "" {
		pdf.Cell(0, 7, fmt.Sprintf("TIN: %s", slip.TIN))
		pdf.Ln(6)
	}
	if slip.AccountNumber != "" {
		pdf.Cell(0, 7, fmt.Sprintf("ECOBANK: %s", slip.AccountNumber))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	moneyLine := func(label string, amount decimal.Decimal) {
		pdf.Cell(90, 7, label)
		pdf.CellFormat(40, 7, "GHS "+amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	moneyLine("Gross Income", slip.GrossIncome)
	moneyLine("Untaxed Bonus", slip.UntaxedBonus)
	moneyLine("Employee SSF (5.5%)", slip.EmployeeSSF)
	moneyLine("Income Tax (PAYE)", slip.IncomeTax)
	moneyLine("Bonus Tax", slip.BonusTax)
	moneyLine("Total Deductions", slip.TotalDeductions)
	moneyLine("Tier 2 Pension", slip.Tier2)
	moneyLine("Employer SSF (13%)", slip.EmployerSSF)
	moneyLine("Total Contributions", slip.TotalContributions)
	moneyLine("Total Income", slip.TotalIncome)

	pdf.SetFont("Helvetica", "B", 11)
	moneyLine("Net Income", slip.NetIncome)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Ln(4)

	moneyLine("YTD Tier 1", slip.YtdTier1)
	moneyLine("YTD Tier 2", slip.YtdTier2)
	moneyLine("YTD Gross Pay", slip.YtdGrossPay)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}

	if r.crypto != nil && r.crypto.Configured() {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", err
		}
		encrypted, err := r.crypto.Encrypt(data)
		if err != nil {
			return "", err
		}
		encryptedPath := filePath + ".enc"
		if err := os.WriteFile(encryptedPath, encrypted, 0o600); err != nil {
			return "", err
		}
		if err := os.Remove(filePath); err != nil {
			return "", err
		}
		return encryptedPath, nil
	}

	return filePath, nil
}
