package ytd

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps payslip records in a single upsert table. The
// unique constraint on (staff_number, period_no) plus ON CONFLICT DO
// UPDATE gives the atomic replace semantics WriteRecord requires.
type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{DB: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS payslip_records (
      id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
      staff_number BIGINT NOT NULL,
      name TEXT NOT NULL,
      period_no INT NOT NULL,
      tier_1 BIGINT NOT NULL DEFAULT 0,
      tier_2 BIGINT NOT NULL DEFAULT 0,
      gross_pay BIGINT NOT NULL DEFAULT 0,
      UNIQUE (staff_number, period_no)
    )
  `)
	return err
}

func (s *PostgresStore) WriteRecord(ctx context.Context, rec Record) error {
	if err := rec.validate(); err != nil {
		return err
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO payslip_records (staff_number, name, period_no, tier_1, tier_2, gross_pay)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (staff_number, period_no)
    DO UPDATE SET name = EXCLUDED.name,
                  tier_1 = EXCLUDED.tier_1,
                  tier_2 = EXCLUDED.tier_2,
                  gross_pay = EXCLUDED.gross_pay
  `, rec.StaffNumber, rec.Name, rec.Period, rec.Tier1, rec.Tier2, rec.GrossPay)
	return err
}

func (s *PostgresStore) PeriodRecord(ctx context.Context, staffNumber, period int) (Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT staff_number, name, period_no, tier_1, tier_2, gross_pay
    FROM payslip_records
    WHERE staff_number = $1 AND period_no = $2
  `, staffNumber, period)
	if err != nil {
		return Record{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		return Record{StaffNumber: staffNumber, Period: period}, rows.Err()
	}
	var rec Record
	if err := rows.Scan(&rec.StaffNumber, &rec.Name, &rec.Period, &rec.Tier1, &rec.Tier2, &rec.GrossPay); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *PostgresStore) Cumulative(ctx context.Context, staffNumber, upToPeriod int) (Cumulative, error) {
	agg := Cumulative{StaffNumber: staffNumber}
	err := s.DB.QueryRow(ctx, `
    SELECT COALESCE(SUM(tier_1), 0), COALESCE(SUM(tier_2), 0), COALESCE(SUM(gross_pay), 0)
    FROM payslip_records
    WHERE staff_number = $1 AND period_no <= $2
  `, staffNumber, upToPeriod).Scan(&agg.Tier1, &agg.Tier2, &agg.GrossPay)
	if err != nil {
		return Cumulative{}, err
	}
	return agg, nil
}

func (s *PostgresStore) Close() error {
	s.DB.Close()
	return nil
}
