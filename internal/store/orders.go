package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"service-order-pipeline/internal/model"
)

const orderColumns = `order_number, order_date, order_status, engine_manufacturer, engine_description,
	vehicle_model, raw_defect_description, responsible_mechanic, parts_total, labor_total,
	grand_total, original_parts_value, calculation_verified, created_at`

const orderColumnCount = 14

// ExistingOrderNumbers returns the subset of keys already stored.
func (d *DB) ExistingOrderNumbers(ctx context.Context, keys []string) (map[string]bool, error) {
	found := make(map[string]bool, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	var (
		rows *sql.Rows
		err  error
	)
	if d.driver == DriverPostgres {
		rows, err = d.db.QueryContext(ctx,
			`SELECT order_number FROM service_orders WHERE order_number = ANY($1)`, pq.Array(keys))
	} else {
		args := make([]interface{}, len(keys))
		for i, k := range keys {
			args[i] = k
		}
		rows, err = d.db.QueryContext(ctx,
			`SELECT order_number FROM service_orders WHERE order_number IN (`+placeholders(len(keys))+`)`, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("query existing orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		found[k] = true
	}
	return found, rows.Err()
}

// InsertOrders writes records in one statement inside a transaction. Rows
// whose order number already exists are left untouched; the order numbers
// actually written are returned.
func (d *DB) InsertOrders(ctx context.Context, records []model.NormalizedRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	values := make([]string, len(records))
	args := make([]interface{}, 0, len(records)*orderColumnCount)
	for i, r := range records {
		values[i] = "(" + placeholders(orderColumnCount) + ")"
		args = append(args,
			r.OrderNumber, r.OrderDate, string(r.OrderStatus),
			nullString(r.EngineManufacturer), nullString(r.EngineDescription),
			nullString(r.VehicleModel), nullString(r.RawDefectDescription), nullString(r.ResponsibleMechanic),
			r.PartsTotal, r.LaborTotal, r.GrandTotal, r.OriginalPartsValue,
			r.CalculationVerified, now)
	}
	query := d.rebind(`INSERT INTO service_orders (` + orderColumns + `) VALUES ` +
		strings.Join(values, ", ") +
		` ON CONFLICT (order_number) DO NOTHING RETURNING order_number`)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert orders: %w", err)
	}
	var inserted []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, err
		}
		inserted = append(inserted, k)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert: %w", err)
	}
	return inserted, nil
}

// GetOrder loads one stored order by its natural key.
func (d *DB) GetOrder(ctx context.Context, orderNumber string) (*model.NormalizedRecord, error) {
	var (
		r                                                model.NormalizedRecord
		status                                           string
		createdAt                                        time.Time
		manufacturer, description, vehicle, defect, mech sql.NullString
	)
	err := d.db.QueryRowContext(ctx, d.rebind(`SELECT `+orderColumns+` FROM service_orders WHERE order_number = ?`), orderNumber).
		Scan(&r.OrderNumber, &r.OrderDate, &status, &manufacturer, &description, &vehicle, &defect, &mech,
			&r.PartsTotal, &r.LaborTotal, &r.GrandTotal, &r.OriginalPartsValue, &r.CalculationVerified, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	r.OrderStatus = model.OrderStatus(status)
	r.EngineManufacturer = fromNull(manufacturer)
	r.EngineDescription = fromNull(description)
	r.VehicleModel = fromNull(vehicle)
	r.RawDefectDescription = fromNull(defect)
	r.ResponsibleMechanic = fromNull(mech)
	return &r, nil
}

// CountOrders returns how many orders are stored.
func (d *DB) CountOrders(ctx context.Context) (int, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM service_orders`).Scan(&n)
	return n, err
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
