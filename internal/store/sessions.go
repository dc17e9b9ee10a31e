package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"service-order-pipeline/internal/model"
)

const sessionColumns = `id, file_name, status, started_at, finished_at, duration_ms, attempts,
	summary, reconciliation, error_message`

// SaveSession stores the audit row of one upload. Saving the same id twice
// replaces the earlier row.
func (d *DB) SaveSession(ctx context.Context, s model.UploadSession) error {
	var (
		summaryJSON, reconJSON       sql.NullString
		total, valid, ins, skip, bad int
	)
	if s.Summary != nil {
		b, err := json.Marshal(s.Summary)
		if err != nil {
			return err
		}
		summaryJSON = sql.NullString{String: string(b), Valid: true}
		total, valid = s.Summary.TotalRows, s.Summary.ValidRows
	}
	if s.Reconciliation != nil {
		b, err := json.Marshal(s.Reconciliation)
		if err != nil {
			return err
		}
		reconJSON = sql.NullString{String: string(b), Valid: true}
		ins, skip, bad = s.Reconciliation.Inserted, s.Reconciliation.Skipped, s.Reconciliation.Errors
	}

	_, err := d.db.ExecContext(ctx, d.rebind(`INSERT INTO upload_sessions
		(id, file_name, status, started_at, finished_at, duration_ms, attempts,
		 total_rows, valid_rows, inserted, skipped, errors, summary, reconciliation, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		 status = excluded.status, finished_at = excluded.finished_at, duration_ms = excluded.duration_ms,
		 attempts = excluded.attempts, total_rows = excluded.total_rows, valid_rows = excluded.valid_rows,
		 inserted = excluded.inserted, skipped = excluded.skipped, errors = excluded.errors,
		 summary = excluded.summary, reconciliation = excluded.reconciliation,
		 error_message = excluded.error_message`),
		s.ID, s.FileName, s.Status, s.StartedAt, s.FinishedAt, s.DurationMillis, s.Attempts,
		total, valid, ins, skip, bad, summaryJSON, reconJSON, nullString(nonEmpty(s.Error)))
	if err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	return nil
}

// ListSessions returns the most recent sessions first.
func (d *DB) ListSessions(ctx context.Context, limit int) ([]model.UploadSession, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx,
		d.rebind(`SELECT `+sessionColumns+` FROM upload_sessions ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []model.UploadSession{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// GetSession loads one session by upload id.
func (d *DB) GetSession(ctx context.Context, id string) (*model.UploadSession, error) {
	row := d.db.QueryRowContext(ctx, d.rebind(`SELECT `+sessionColumns+` FROM upload_sessions WHERE id = ?`), id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(sc scanner) (*model.UploadSession, error) {
	var (
		s                      model.UploadSession
		summaryJSON, reconJSON sql.NullString
		errMsg                 sql.NullString
	)
	if err := sc.Scan(&s.ID, &s.FileName, &s.Status, &s.StartedAt, &s.FinishedAt, &s.DurationMillis, &s.Attempts,
		&summaryJSON, &reconJSON, &errMsg); err != nil {
		return nil, err
	}
	if summaryJSON.Valid {
		s.Summary = &model.IngestionSummary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), s.Summary); err != nil {
			return nil, fmt.Errorf("decode summary of %s: %w", s.ID, err)
		}
	}
	if reconJSON.Valid {
		s.Reconciliation = &model.ReconciliationResult{}
		if err := json.Unmarshal([]byte(reconJSON.String), s.Reconciliation); err != nil {
			return nil, fmt.Errorf("decode reconciliation of %s: %w", s.ID, err)
		}
	}
	s.Error = errMsg.String
	return &s, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
