package ytd

import "context"

// StoreAPI is the year-to-date ledger. Implementations must guarantee
// uniqueness on (staff number, period) with atomic replace-on-conflict;
// that upsert is the only concurrency-control primitive the callers
// rely on. A write must be visible to a Cumulative call issued after it
// returns.
type StoreAPI interface {
	// WriteRecord inserts or fully replaces the row for the record's
	// (staff number, period) pair. Re-running a period overwrites, it
	// never double-counts.
	WriteRecord(ctx context.Context, rec Record) error

	// PeriodRecord returns the stored row, or a zero-valued record when
	// none exists. Absence is not an error.
	PeriodRecord(ctx context.Context, staffNumber, period int) (Record, error)

	// Cumulative sums tier 1, tier 2 and gross pay over every stored
	// row with period number <= upToPeriod. A staff number with no rows
	// yields a zero aggregate.
	Cumulative(ctx context.Context, staffNumber, upToPeriod int) (Cumulative, error)

	Close() error
}
