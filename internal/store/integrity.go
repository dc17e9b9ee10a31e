package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"service-order-pipeline/internal/model"
)

// OrderCounts tallies stored orders against the inclusive year range. Dates
// are compared as YYYY-MM-DD text bounds, which both dialects order correctly.
func (d *DB) OrderCounts(ctx context.Context, minYear, maxYear int) (model.OrderCounts, error) {
	lower := time.Date(minYear, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)
	upper := time.Date(maxYear+1, time.January, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly)

	var c model.OrderCounts
	err := d.db.QueryRowContext(ctx, d.rebind(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN order_date >= ? AND order_date < ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN order_date < ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN order_date >= ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN calculation_verified THEN 0 ELSE 1 END), 0)
		FROM service_orders`), lower, upper, lower, upper).
		Scan(&c.Total, &c.InRange, &c.BeforeMin, &c.AfterMax, &c.Unverified)
	if err != nil {
		return model.OrderCounts{}, fmt.Errorf("count orders: %w", err)
	}
	return c, nil
}

// SaveIntegrityChecks appends check results to the integrity log.
func (d *DB) SaveIntegrityChecks(ctx context.Context, checks []model.IntegrityCheck) error {
	if len(checks) == 0 {
		return nil
	}
	values := make([]string, len(checks))
	args := make([]interface{}, 0, len(checks)*6)
	for i, c := range checks {
		values[i] = "(" + placeholders(6) + ")"
		args = append(args, c.CheckedAt, c.Check, c.Expected, c.Actual, c.Status, c.Details)
	}
	query := `INSERT INTO integrity_checks (checked_at, check_type, expected_count, actual_count, status, details) VALUES ` +
		strings.Join(values, ", ")
	if _, err := d.db.ExecContext(ctx, d.rebind(query), args...); err != nil {
		return fmt.Errorf("save integrity checks: %w", err)
	}
	return nil
}

// ListIntegrityChecks returns the most recent checks first.
func (d *DB) ListIntegrityChecks(ctx context.Context, limit int) ([]model.IntegrityCheck, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.QueryContext(ctx, d.rebind(`SELECT checked_at, check_type, expected_count, actual_count, status, details
		FROM integrity_checks ORDER BY checked_at DESC, id DESC LIMIT ?`), limit)
	if err != nil {
		return nil, fmt.Errorf("list integrity checks: %w", err)
	}
	defer rows.Close()

	var out []model.IntegrityCheck
	for rows.Next() {
		var c model.IntegrityCheck
		if err := rows.Scan(&c.CheckedAt, &c.Check, &c.Expected, &c.Actual, &c.Status, &c.Details); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
