package payslipshandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"paygen/internal/domain/payroll"
	"paygen/internal/domain/payslip"
	"paygen/internal/domain/ytd"
	"paygen/internal/platform/jobs"
	"paygen/internal/platform/metrics"
	"paygen/internal/transport/http/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) (*httptest.Server, ytd.StoreAPI, func()) {
	t.Helper()
	store := ytd.NewMemoryStore()
	payslips := payslip.NewService(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	jobsSvc := jobs.New(payslips, metrics.New())
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	handler := NewHandler(payslips, jobsSvc, store, payroll.DefaultOptions())
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	return srv, store, func() {
		cancel()
		srv.Close()
	}
}

func postJSON(t *testing.T, url, body string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

func getJSON(t *testing.T, url string) (*http.Response, envelope) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, env
}

const sampleRows = `{
  "rows": [
    {"name": "Ama Mensah", "staffNumber": 7, "grossIncome": "5000.00", "untaxedBonus": "500.00", "email": "ama@example.com"},
    {"name": "Kofi Boateng", "staffNumber": 12, "grossIncome": "1000.00", "untaxedBonus": "0"}
  ]
}`

func TestRunPeriodEndpoint(t *testing.T) {
	srv, _, done := newTestServer(t)
	defer done()

	resp, env := postJSON(t, srv.URL+"/periods/1/payslips", sampleRows)
	if resp.StatusCode != http.StatusOK || !env.Success {
		t.Fatalf("expected success, got %d %+v", resp.StatusCode, env)
	}

	var slips []struct {
		Name          string `json:"name"`
		StaffNumber   int    `json:"staffNumber"`
		NetIncome     string `json:"netIncome"`
		YtdGrossPay   string `json:"ytdGrossPay"`
		PayslipNumber string `json:"payslipNumber"`
	}
	if err := json.Unmarshal(env.Data, &slips); err != nil {
		t.Fatalf("decode slips: %v", err)
	}
	if len(slips) != 2 {
		t.Fatalf("expected 2 slips, got %d", len(slips))
	}
	if slips[0].NetIncome != "4420.25" {
		t.Fatalf("expected net income 4420.25, got %s", slips[0].NetIncome)
	}
	if slips[0].PayslipNumber != "ZED1" {
		t.Fatalf("expected ZED1, got %s", slips[0].PayslipNumber)
	}
	if slips[0].YtdGrossPay != "5000" {
		t.Fatalf("expected YTD gross 5000, got %s", slips[0].YtdGrossPay)
	}
}

func TestRunPeriodRejectsUnknownRounding(t *testing.T) {
	srv, store, done := newTestServer(t)
	defer done()

	body := `{"rows": [{"name": "A", "staffNumber": 7, "grossIncome": "100", "untaxedBonus": "0"}], "options": {"rounding": "banker"}}`
	resp, env := postJSON(t, srv.URL+"/periods/1/payslips", body)
	if resp.StatusCode != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_configuration" {
		t.Fatalf("expected invalid_configuration, got %d %+v", resp.StatusCode, env)
	}

	agg, _ := store.Cumulative(context.Background(), 7, 12)
	if agg.GrossPay != 0 {
		t.Fatalf("ledger must stay untouched, got %+v", agg)
	}
}

func TestRunPeriodReportsBadRow(t *testing.T) {
	srv, _, done := newTestServer(t)
	defer done()

	body := `{"rows": [{"name": "No Gross", "staffNumber": 8, "untaxedBonus": "0"}]}`
	resp, env := postJSON(t, srv.URL+"/periods/1/payslips", body)
	if resp.StatusCode != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "bad_row" {
		t.Fatalf("expected bad_row, got %d %+v", resp.StatusCode, env)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv, store, done := newTestServer(t)
	defer done()

	body := `{"grossIncome": "5000.00", "untaxedBonus": "500.00"}`
	resp, env := postJSON(t, srv.URL+"/tax/preview", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var breakdown struct {
		IncomeTax string `json:"incomeTax"`
		NetIncome string `json:"netIncome"`
	}
	if err := json.Unmarshal(env.Data, &breakdown); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if breakdown.IncomeTax != "779.75" || breakdown.NetIncome != "4420.25" {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}

	agg, _ := store.Cumulative(context.Background(), 7, 12)
	if agg.GrossPay != 0 {
		t.Fatalf("preview must not persist, got %+v", agg)
	}
}

func TestCumulativeEndpoint(t *testing.T) {
	srv, _, done := newTestServer(t)
	defer done()

	if _, env := postJSON(t, srv.URL+"/periods/1/payslips", sampleRows); !env.Success {
		t.Fatalf("seed run failed: %+v", env)
	}
	if _, env := postJSON(t, srv.URL+"/periods/2/payslips", sampleRows); !env.Success {
		t.Fatalf("seed run failed: %+v", env)
	}

	resp, env := getJSON(t, srv.URL+"/ytd/7?period=2")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var agg struct {
		YtdGrossPay string `json:"ytdGrossPay"`
		YtdTier1    string `json:"ytdTier1"`
	}
	if err := json.Unmarshal(env.Data, &agg); err != nil {
		t.Fatalf("decode aggregate: %v", err)
	}
	if agg.YtdGrossPay != "10000" || agg.YtdTier1 != "550" {
		t.Fatalf("unexpected aggregate: %+v", agg)
	}
}

func TestAsyncRunLifecycle(t *testing.T) {
	srv, store, done := newTestServer(t)
	defer done()

	body := `{"period": 3, "rows": [{"name": "Ama Mensah", "staffNumber": 7, "grossIncome": "5000.00", "untaxedBonus": "0"}]}`
	resp, env := postJSON(t, srv.URL+"/runs", body)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var accepted struct {
		RunID string `json:"runId"`
	}
	if err := json.Unmarshal(env.Data, &accepted); err != nil || accepted.RunID == "" {
		t.Fatalf("expected a run id, got %s err %v", env.Data, err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("run never completed")
		}
		_, env := getJSON(t, srv.URL+"/runs/"+accepted.RunID)
		var run struct {
			Status  string `json:"status"`
			Counter int    `json:"counter"`
		}
		if err := json.Unmarshal(env.Data, &run); err != nil {
			t.Fatalf("decode run: %v", err)
		}
		if run.Status == jobs.StatusCompleted {
			if run.Counter != 1 {
				t.Fatalf("expected counter 1, got %d", run.Counter)
			}
			break
		}
		if run.Status == jobs.StatusFailed {
			t.Fatalf("run failed: %+v", run)
		}
		time.Sleep(10 * time.Millisecond)
	}

	agg, _ := store.Cumulative(context.Background(), 7, 3)
	if agg.GrossPay != 500000 {
		t.Fatalf("async run did not persist, got %+v", agg)
	}
}

func TestRunStatusNotFound(t *testing.T) {
	srv, _, done := newTestServer(t)
	defer done()

	resp, env := getJSON(t, srv.URL+"/runs/nope")
	if resp.StatusCode != http.StatusNotFound || env.Error == nil || env.Error.Code != "run_not_found" {
		t.Fatalf("expected run_not_found, got %d %+v", resp.StatusCode, env)
	}
}
