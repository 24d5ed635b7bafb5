package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"paygen/internal/domain/payroll"
	"paygen/internal/domain/payslip"
	"paygen/internal/platform/metrics"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrQueueFull = errors.New("run queue is full")

// Service executes payslip period runs on a single background worker
// so callers are never blocked by a long roster. Run state lives in
// memory and is polled by id.
type Service struct {
	payslips *payslip.Service
	metrics  *metrics.Collector
	queue    chan job

	mu   sync.RWMutex
	runs map[string]*Run
}

type job struct {
	runID  string
	period int
	rows   []payslip.Row
	opts   payroll.Options
}

// Run is the observable state of one queued period run.
type Run struct {
	ID          string     `json:"id"`
	Period      int        `json:"period"`
	Status      string     `json:"status"`
	Counter     int        `json:"counter"`
	Total       int        `json:"total"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func New(payslips *payslip.Service, collector *metrics.Collector) *Service {
	return &Service{
		payslips: payslips,
		metrics:  collector,
		queue:    make(chan job, 16),
		runs:     make(map[string]*Run),
	}
}

// Start launches the worker; it stops when ctx is cancelled. A run in
// flight at cancellation finishes its current row and stops between
// rows.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Enqueue registers a period run and hands it to the worker. It fails
// fast with ErrQueueFull instead of blocking the caller.
func (s *Service) Enqueue(period int, rows []payslip.Row, opts payroll.Options) (string, error) {
	runID := uuid.NewString()

	s.mu.Lock()
	s.runs[runID] = &Run{
		ID:        runID,
		Period:    period,
		Status:    StatusQueued,
		Total:     len(rows),
		StartedAt: time.Now().UTC(),
	}
	s.mu.Unlock()

	select {
	case s.queue <- job{runID: runID, period: period, rows: rows, opts: opts}:
		return runID, nil
	default:
		s.mu.Lock()
		delete(s.runs, runID)
		s.mu.Unlock()
		slog.Warn("run queue full", "period", period)
		return "", ErrQueueFull
	}
}

// Run returns a snapshot of the run state.
func (s *Service) Run(runID string) (Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			s.runJob(ctx, j)
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) {
	s.setStatus(j.runID, StatusRunning, "")
	if s.metrics != nil {
		s.metrics.RunStarted()
	}

	_, err := s.payslips.Run(ctx, j.period, j.rows, j.opts, func(p payslip.Progress) {
		s.mu.Lock()
		if run, ok := s.runs[j.runID]; ok {
			run.Counter = p.Counter
			run.Total = p.Total
		}
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.RowProcessed()
		}
	})
	if err != nil {
		s.setStatus(j.runID, StatusFailed, err.Error())
		if s.metrics != nil {
			s.metrics.RunFailed()
		}
		slog.Warn("payslip run failed", "runId", j.runID, "period", j.period, "err", err)
		return
	}
	s.setStatus(j.runID, StatusCompleted, "")
}

func (s *Service) setStatus(runID, status, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return
	}
	run.Status = status
	run.Error = errMsg
	if status == StatusCompleted || status == StatusFailed {
		now := time.Now().UTC()
		run.CompletedAt = &now
	}
}
