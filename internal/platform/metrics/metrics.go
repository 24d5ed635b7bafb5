package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	totalDurationMs uint64
	runsStarted     uint64
	runsFailed      uint64
	rowsProcessed   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RunStarted() {
	atomic.AddUint64(&c.runsStarted, 1)
}

func (c *Collector) RunFailed() {
	atomic.AddUint64(&c.runsFailed, 1)
}

func (c *Collector) RowProcessed() {
	atomic.AddUint64(&c.rowsProcessed, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal": total,
		"errorsTotal":   atomic.LoadUint64(&c.errorRequests),
		"avgDurationMs": avg,
		"runsStarted":   atomic.LoadUint64(&c.runsStarted),
		"runsFailed":    atomic.LoadUint64(&c.runsFailed),
		"rowsProcessed": atomic.LoadUint64(&c.rowsProcessed),
	}
}
