package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// Schema creates the ledger tables. Rows are kept as the flat text table so records
// that fail to decode survive a rewrite.
const Schema = `
CREATE TABLE IF NOT EXISTS attendance_periods (
	period_key  TEXT PRIMARY KEY,
	version     BIGINT NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attendance_rows (
	period_key       TEXT NOT NULL REFERENCES attendance_periods (period_key) ON DELETE CASCADE,
	position         INTEGER NOT NULL,
	worker           TEXT NOT NULL,
	date             TEXT NOT NULL,
	check_in         TEXT NOT NULL,
	check_out        TEXT NOT NULL,
	worked_duration  TEXT NOT NULL,
	PRIMARY KEY (period_key, position)
);
`

var rowColumns = []string{"period_key", "position", "worker", "date", "check_in", "check_out", "worked_duration"}

type ledgerRepository struct {
	db         *database.DB
	normalizer *attendance.TimeNormalizer
}

func NewLedgerRepository(db *database.DB, normalizer *attendance.TimeNormalizer) attendance.EventStore {
	return &ledgerRepository{db: db, normalizer: normalizer}
}

// EnsureSchema applies Schema.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create ledger schema: %w", err)
	}
	return nil
}

// Get implements attendance.EventStore.
func (r *ledgerRepository) Get(ctx context.Context, key attendance.PeriodKey) (*attendance.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM attendance_periods WHERE period_key = $1`, key.String()).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", attendance.ErrLedgerNotFound, key)
		}
		return nil, fmt.Errorf("failed to get ledger version: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT worker, date, check_in, check_out, worked_duration
		FROM attendance_rows
		WHERE period_key = $1
		ORDER BY position
	`, key.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger rows: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		if err := rows.Scan(&rec.Worker, &rec.Date, &rec.CheckIn, &rec.CheckOut, &rec.WorkedDuration); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger rows: %w", err)
	}

	ledger, problems := r.normalizer.LedgerFromRecords(key, version, records)
	for _, p := range problems {
		slog.WarnContext(ctx, "skipping unreadable ledger row",
			"period", key.String(),
			"worker", p.Record.Worker,
			"date", p.Record.Date,
			"field", p.Field,
			"error", p.Err,
		)
	}
	return ledger, nil
}

// Put implements attendance.EventStore. The version check and the row replacement
// commit together.
func (r *ledgerRepository) Put(ctx context.Context, ledger *attendance.Ledger) error {
	key := ledger.Key.String()
	records := r.normalizer.Records(ledger)

	err := WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var (
			query string
			args  []interface{}
		)
		if ledger.Version == 0 {
			query = `
				INSERT INTO attendance_periods (period_key, version, updated_at)
				VALUES ($1, 1, now())
				ON CONFLICT (period_key) DO NOTHING
			`
			args = []interface{}{key}
		} else {
			query = `
				UPDATE attendance_periods
				SET version = version + 1, updated_at = now()
				WHERE period_key = $1 AND version = $2
			`
			args = []interface{}{key, ledger.Version}
		}

		commandTag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to bump ledger version: %w", err)
		}
		if commandTag.RowsAffected() != 1 {
			return fmt.Errorf("%w: %s written from %d", attendance.ErrVersionConflict, key, ledger.Version)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM attendance_rows WHERE period_key = $1`, key); err != nil {
			return fmt.Errorf("failed to clear ledger rows: %w", err)
		}

		if len(records) == 0 {
			return nil
		}
		copyRows := make([][]interface{}, 0, len(records))
		for i, rec := range records {
			copyRows = append(copyRows, []interface{}{key, i, rec.Worker, rec.Date, rec.CheckIn, rec.CheckOut, rec.WorkedDuration})
		}
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{"attendance_rows"}, rowColumns, pgx.CopyFromRows(copyRows)); err != nil {
			return fmt.Errorf("failed to write ledger rows: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ledger.Version++
	return nil
}

// List implements attendance.EventStore.
func (r *ledgerRepository) List(ctx context.Context, prefix string) ([]attendance.PeriodKey, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT period_key
		FROM attendance_periods
		WHERE starts_with(period_key, $1)
		ORDER BY period_key
	`, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	defer rows.Close()

	var keys []attendance.PeriodKey
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan period key: %w", err)
		}
		key, err := attendance.ParsePeriodKey(raw)
		if err != nil {
			slog.WarnContext(ctx, "ignoring unrecognized period key", "period", raw)
			continue
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period keys: %w", err)
	}
	return keys, nil
}
