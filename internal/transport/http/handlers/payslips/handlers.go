package payslipshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"paygen/internal/domain/payroll"
	"paygen/internal/domain/payslip"
	"paygen/internal/domain/ytd"
	"paygen/internal/platform/jobs"
	"paygen/internal/transport/http/api"
	"paygen/internal/transport/http/middleware"
)

type Handler struct {
	payslips *payslip.Service
	jobs     *jobs.Service
	ledger   ytd.StoreAPI
	defaults payroll.Options
}

func NewHandler(payslips *payslip.Service, jobsSvc *jobs.Service, ledger ytd.StoreAPI, defaults payroll.Options) *Handler {
	return &Handler{payslips: payslips, jobs: jobsSvc, ledger: ledger, defaults: defaults}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/periods/{period}/payslips", h.handleRunPeriod)
	r.Post("/runs", h.handleEnqueueRun)
	r.Get("/runs/{runID}", h.handleRunStatus)
	r.Post("/tax/preview", h.handlePreview)
	r.Get("/ytd/{staffNumber}", h.handleCumulative)
}

type rowPayload struct {
	Name          string           `json:"name"`
	StaffNumber   json.Number      `json:"staffNumber"`
	GrossIncome   *decimal.Decimal `json:"grossIncome"`
	UntaxedBonus  *decimal.Decimal `json:"untaxedBonus"`
	Email         string           `json:"email"`
	TIN           string           `json:"tin"`
	Position      string           `json:"position"`
	Department    string           `json:"department"`
	AccountNumber string           `json:"accountNumber"`
}

func (p rowPayload) toRow() payslip.Row {
	return payslip.Row{
		Name:          p.Name,
		StaffNumber:   p.StaffNumber.String(),
		GrossIncome:   p.GrossIncome,
		UntaxedBonus:  p.UntaxedBonus,
		Email:         p.Email,
		TIN:           p.TIN,
		Position:      p.Position,
		Department:    p.Department,
		AccountNumber: p.AccountNumber,
	}
}

type optionsPayload struct {
	Rounding  string `json:"rounding"`
	CalcTier2 *bool  `json:"calcTier2"`
}

// options layers request overrides on the server defaults. Both knobs
// are per invocation, never process-global.
func (h *Handler) options(p *optionsPayload) payroll.Options {
	opts := h.defaults
	if p == nil {
		return opts
	}
	if p.Rounding != "" {
		opts.Rounding = payroll.RoundingMode(p.Rounding)
	}
	if p.CalcTier2 != nil {
		opts.CalcTier2 = *p.CalcTier2
	}
	return opts
}

type runPayload struct {
	Rows    []rowPayload    `json:"rows"`
	Options *optionsPayload `json:"options"`
}

func toRows(payloads []rowPayload) []payslip.Row {
	rows := make([]payslip.Row, 0, len(payloads))
	for _, p := range payloads {
		rows = append(rows, p.toRow())
	}
	return rows
}

func (h *Handler) handleRunPeriod(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	period, err := strconv.Atoi(chi.URLParam(r, "period"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be a month number", requestID)
		return
	}

	var payload runPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid run payload", requestID)
		return
	}
	if len(payload.Rows) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "rows must not be empty", requestID)
		return
	}

	slips, err := h.payslips.Run(r.Context(), period, toRows(payload.Rows), h.options(payload.Options), nil)
	if err != nil {
		h.failRun(w, err, requestID)
		return
	}
	api.Success(w, slips, requestID)
}

type enqueuePayload struct {
	Period  int             `json:"period"`
	Rows    []rowPayload    `json:"rows"`
	Options *optionsPayload `json:"options"`
}

func (h *Handler) handleEnqueueRun(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload enqueuePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid run payload", requestID)
		return
	}
	if len(payload.Rows) == 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "rows must not be empty", requestID)
		return
	}

	// Reject bad configuration up front; the worker would only discover
	// it after the request has been accepted.
	opts := h.options(payload.Options)
	if err := opts.Validate(); err != nil {
		h.failRun(w, err, requestID)
		return
	}

	runID, err := h.jobs.Enqueue(payload.Period, toRows(payload.Rows), opts)
	if err != nil {
		api.Fail(w, http.StatusServiceUnavailable, "queue_full", "run queue is full, retry later", requestID)
		return
	}
	api.Accepted(w, map[string]string{"runId": runID}, requestID)
}

func (h *Handler) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	run, ok := h.jobs.Run(chi.URLParam(r, "runID"))
	if !ok {
		api.Fail(w, http.StatusNotFound, "run_not_found", "no such run", requestID)
		return
	}
	api.Success(w, run, requestID)
}

type previewPayload struct {
	GrossIncome  *decimal.Decimal `json:"grossIncome"`
	UntaxedBonus *decimal.Decimal `json:"untaxedBonus"`
	Options      *optionsPayload  `json:"options"`
}

type breakdownResponse struct {
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
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload previewPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid preview payload", requestID)
		return
	}

	gross, bonus := decimal.Zero, decimal.Zero
	if payload.GrossIncome != nil {
		gross = *payload.GrossIncome
	}
	if payload.UntaxedBonus != nil {
		bonus = *payload.UntaxedBonus
	}

	b, err := h.payslips.Preview(gross, bonus, h.options(payload.Options))
	if err != nil {
		h.failRun(w, err, requestID)
		return
	}

	api.Success(w, breakdownResponse{
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
	}, requestID)
}

type cumulativeResponse struct {
	StaffNumber int             `json:"staffNumber"`
	UpToPeriod  int             `json:"upToPeriod"`
	YtdTier1    decimal.Decimal `json:"ytdTier1"`
	YtdTier2    decimal.Decimal `json:"ytdTier2"`
	YtdGrossPay decimal.Decimal `json:"ytdGrossPay"`
}

func (h *Handler) handleCumulative(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	staffNumber, err := strconv.Atoi(chi.URLParam(r, "staffNumber"))
	if err != nil || staffNumber <= 0 {
		api.Fail(w, http.StatusBadRequest, "invalid_staff_number", "staff number must be a positive integer", requestID)
		return
	}

	upTo := 12
	if raw := r.URL.Query().Get("period"); raw != "" {
		upTo, err = strconv.Atoi(raw)
		if err != nil || upTo < 1 {
			api.Fail(w, http.StatusBadRequest, "invalid_period", "period must be a positive integer", requestID)
			return
		}
	}

	agg, err := h.ledger.Cumulative(r.Context(), staffNumber, upTo)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "ledger_read_failed", "failed to read year-to-date totals", requestID)
		return
	}

	api.Success(w, cumulativeResponse{
		StaffNumber: staffNumber,
		UpToPeriod:  upTo,
		YtdTier1:    agg.Tier1.Cedis(),
		YtdTier2:    agg.Tier2.Cedis(),
		YtdGrossPay: agg.GrossPay.Cedis(),
	}, requestID)
}

// failRun maps domain errors onto HTTP codes. Row failures carry the
// offending row and field back to the caller.
func (h *Handler) failRun(w http.ResponseWriter, err error, requestID string) {
	var rowErr *payslip.RowError
	switch {
	case errors.Is(err, payroll.ErrInvalidRounding):
		api.Fail(w, http.StatusBadRequest, "invalid_configuration", err.Error(), requestID)
	case errors.Is(err, payslip.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "invalid_period", err.Error(), requestID)
	case errors.As(err, &rowErr):
		api.Fail(w, http.StatusUnprocessableEntity, "bad_row", err.Error(), requestID)
	case errors.Is(err, ytd.ErrInvalidStaffNumber), errors.Is(err, ytd.ErrInvalidPeriod):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, "run_failed", "payslip run failed", requestID)
	}
}
