package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// DB is the relational store for orders, upload sessions, mechanics and
// defect categories. It speaks both SQLite and Postgres.
type DB struct {
	db     *sql.DB
	driver string
}

// Open connects using driver and dsn.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return &DB{db: db, driver: driver}, nil
}

// New wraps an existing handle, e.g. one from sqlmock.
func New(db *sql.DB, driver string) *DB {
	return &DB{db: db, driver: driver}
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Ping(ctx context.Context) error { return d.db.PingContext(ctx) }

// Driver names the SQL dialect in use.
func (d *DB) Driver() string { return d.driver }

// Migrate creates every table if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	id := "INTEGER PRIMARY KEY AUTOINCREMENT"
	money := "TEXT"
	if d.driver == DriverPostgres {
		id = "BIGSERIAL PRIMARY KEY"
		// halved parts values carry a third decimal
		money = "NUMERIC(15,3)"
	}

	tables := []string{
		`CREATE TABLE IF NOT EXISTS service_orders (
		id ` + id + `,
		order_number TEXT NOT NULL UNIQUE,
		order_date DATE NOT NULL,
		order_status TEXT NOT NULL,
		engine_manufacturer TEXT,
		engine_description TEXT,
		vehicle_model TEXT,
		raw_defect_description TEXT,
		responsible_mechanic TEXT,
		parts_total ` + money + ` NOT NULL,
		labor_total ` + money + ` NOT NULL,
		grand_total ` + money + ` NOT NULL,
		original_parts_value ` + money + ` NOT NULL,
		calculation_verified BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS upload_sessions (
		id TEXT PRIMARY KEY,
		file_name TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		duration_ms BIGINT NOT NULL,
		attempts INTEGER NOT NULL,
		total_rows INTEGER NOT NULL,
		valid_rows INTEGER NOT NULL,
		inserted INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		errors INTEGER NOT NULL,
		summary TEXT,
		reconciliation TEXT,
		error_message TEXT
	)`,
		`CREATE TABLE IF NOT EXISTS system_mechanics (
		id ` + id + `,
		name TEXT NOT NULL UNIQUE,
		source TEXT NOT NULL,
		active BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS defect_categories (
		id ` + id + `,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL,
		keywords TEXT NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS defect_classifications (
		id ` + id + `,
		order_number TEXT NOT NULL UNIQUE,
		defect_text TEXT NOT NULL,
		category_id BIGINT NOT NULL,
		category_name TEXT NOT NULL,
		confidence DOUBLE PRECISION NOT NULL,
		method TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
		`CREATE TABLE IF NOT EXISTS integrity_checks (
		id ` + id + `,
		checked_at TIMESTAMP NOT NULL,
		check_type TEXT NOT NULL,
		expected_count INTEGER NOT NULL,
		actual_count INTEGER NOT NULL,
		status TEXT NOT NULL,
		details TEXT NOT NULL
	)`,
	}

	for _, ddl := range tables {
		if _, err := d.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $n for Postgres.
func (d *DB) rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
