package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"service-order-pipeline/internal/model"
)

// ExistingMechanics returns which of names are already registered.
func (d *DB) ExistingMechanics(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := `SELECT name FROM system_mechanics WHERE name IN (` + placeholders(len(names)) + `)`
	args := make([]interface{}, len(names))
	for i, n := range names {
		args[i] = n
	}
	if d.driver == DriverPostgres {
		query = `SELECT name FROM system_mechanics WHERE name = ANY($1)`
		args = []interface{}{pq.Array(names)}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mechanics: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		found = append(found, n)
	}
	return found, rows.Err()
}

// InsertMechanics registers names as active mechanics, ignoring duplicates,
// and returns how many were added.
func (d *DB) InsertMechanics(ctx context.Context, names []string, source string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	values := make([]string, len(names))
	args := make([]interface{}, 0, len(names)*4)
	for i, n := range names {
		values[i] = "(?, ?, ?, ?)"
		args = append(args, n, source, true, now)
	}

	res, err := d.db.ExecContext(ctx, d.rebind(`INSERT INTO system_mechanics (name, source, active, created_at) VALUES `+
		strings.Join(values, ", ")+` ON CONFLICT (name) DO NOTHING`), args...)
	if err != nil {
		return 0, fmt.Errorf("insert mechanics: %w", err)
	}
	return res.RowsAffected()
}

// ListMechanics returns every registered mechanic by name.
func (d *DB) ListMechanics(ctx context.Context) ([]model.Mechanic, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, source, active, created_at FROM system_mechanics ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Mechanic
	for rows.Next() {
		var m model.Mechanic
		if err := rows.Scan(&m.ID, &m.Name, &m.Source, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
