package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"paygen/internal/domain/payroll"
	"paygen/internal/domain/payslip"
	"paygen/internal/domain/ytd"
	"paygen/internal/platform/metrics"
)

func waitForTerminalStatus(t *testing.T, svc *Service, runID string) Run {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		run, ok := svc.Run(runID)
		if !ok {
			t.Fatalf("run %s disappeared", runID)
		}
		if run.Status == StatusCompleted || run.Status == StatusFailed {
			return run
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("run %s never finished", runID)
	return Run{}
}

func rowFor(name, staff, gross string) payslip.Row {
	amount := decimal.RequireFromString(gross)
	zero := decimal.Zero
	return payslip.Row{Name: name, StaffNumber: staff, GrossIncome: &amount, UntaxedBonus: &zero}
}

func TestEnqueueRunsToCompletion(t *testing.T) {
	store := ytd.NewMemoryStore()
	svc := New(payslip.NewService(store, nil), metrics.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	runID, err := svc.Enqueue(1, []payslip.Row{
		rowFor("Ama Mensah", "7", "5000.00"),
		rowFor("Kofi Boateng", "12", "1000.00"),
	}, payroll.DefaultOptions())
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	run := waitForTerminalStatus(t, svc, runID)
	if run.Status != StatusCompleted {
		t.Fatalf("expected completed run, got %+v", run)
	}
	if run.Counter != 2 || run.Total != 2 {
		t.Fatalf("expected progress 2/2, got %d/%d", run.Counter, run.Total)
	}
	if run.CompletedAt == nil {
		t.Fatal("expected completion timestamp")
	}

	agg, err := store.Cumulative(context.Background(), 7, 1)
	if err != nil {
		t.Fatalf("cumulative failed: %v", err)
	}
	if agg.GrossPay != 500000 {
		t.Fatalf("worker run did not persist, got %+v", agg)
	}
}

func TestFailedRunRecordsRowContext(t *testing.T) {
	svc := New(payslip.NewService(ytd.NewMemoryStore(), nil), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	runID, err := svc.Enqueue(1, []payslip.Row{
		{Name: "No Gross", StaffNumber: "8"},
	}, payroll.DefaultOptions())
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	run := waitForTerminalStatus(t, svc, runID)
	if run.Status != StatusFailed {
		t.Fatalf("expected failed run, got %+v", run)
	}
	if run.Error == "" {
		t.Fatal("expected row context in the run error")
	}
}

func TestRunUnknownID(t *testing.T) {
	svc := New(payslip.NewService(ytd.NewMemoryStore(), nil), nil)
	if _, ok := svc.Run("missing"); ok {
		t.Fatal("expected unknown run id to report not found")
	}
}
