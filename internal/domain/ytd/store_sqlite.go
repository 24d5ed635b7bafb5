package ytd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the default backend for single-machine use. WAL mode
// keeps readers from blocking the writer; INSERT OR REPLACE on the
// unique key provides the atomic upsert.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. Use
// ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: sqlite allows a single writer, and a :memory:
	// database exists per connection.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
    CREATE TABLE IF NOT EXISTS payslip_records (
      id INTEGER PRIMARY KEY AUTOINCREMENT,
      staff_number INTEGER NOT NULL,
      name TEXT NOT NULL,
      period_no INTEGER NOT NULL,
      tier_1 INTEGER NOT NULL DEFAULT 0,
      tier_2 INTEGER NOT NULL DEFAULT 0,
      gross_pay INTEGER NOT NULL DEFAULT 0,
      UNIQUE(staff_number, period_no)
    );

    CREATE INDEX IF NOT EXISTS idx_payslip_records_staff_period
      ON payslip_records(staff_number, period_no);
  `)
	return err
}

func (s *SQLiteStore) WriteRecord(ctx context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
    INSERT OR REPLACE INTO payslip_records
      (staff_number, name, period_no, tier_1, tier_2, gross_pay)
    VALUES (?, ?, ?, ?, ?, ?)
  `, rec.StaffNumber, rec.Name, rec.Period, rec.Tier1, rec.Tier2, rec.GrossPay)
	return err
}

func (s *SQLiteStore) PeriodRecord(ctx context.Context, staffNumber, period int) (Record, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
    SELECT staff_number, name, period_no, tier_1, tier_2, gross_pay
    FROM payslip_records
    WHERE staff_number = ? AND period_no = ?
  `, staffNumber, period).Scan(&rec.StaffNumber, &rec.Name, &rec.Period, &rec.Tier1, &rec.Tier2, &rec.GrossPay)
	if err == sql.ErrNoRows {
		return Record{StaffNumber: staffNumber, Period: period}, nil
	}
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *SQLiteStore) Cumulative(ctx context.Context, staffNumber, upToPeriod int) (Cumulative, error) {
	agg := Cumulative{StaffNumber: staffNumber}
	err := s.db.QueryRowContext(ctx, `
    SELECT COALESCE(SUM(tier_1), 0), COALESCE(SUM(tier_2), 0), COALESCE(SUM(gross_pay), 0)
    FROM payslip_records
    WHERE staff_number = ? AND period_no <= ?
  `, staffNumber, upToPeriod).Scan(&agg.Tier1, &agg.Tier2, &agg.GrossPay)
	if err != nil {
		return Cumulative{}, err
	}
	return agg, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
