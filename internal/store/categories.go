package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"service-order-pipeline/internal/model"
)

// ListCategories returns every defect category ordered by id.
func (d *DB) ListCategories(ctx context.Context) ([]model.DefectCategory, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, name, description, keywords FROM defect_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []model.DefectCategory
	for rows.Next() {
		var (
			c        model.DefectCategory
			keywords string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &keywords); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(keywords), &c.Keywords); err != nil {
			return nil, fmt.Errorf("decode keywords of %q: %w", c.Name, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SeedCategories inserts categories whose name is not stored yet.
func (d *DB) SeedCategories(ctx context.Context, cats []model.DefectCategory) (int64, error) {
	var added int64
	for _, c := range cats {
		keywords, err := json.Marshal(c.Keywords)
		if err != nil {
			return added, err
		}
		res, err := d.db.ExecContext(ctx, d.rebind(`INSERT INTO defect_categories (name, description, keywords)
			VALUES (?, ?, ?) ON CONFLICT (name) DO NOTHING`), c.Name, c.Description, string(keywords))
		if err != nil {
			return added, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
		n, _ := res.RowsAffected()
		added += n
	}
	return added, nil
}

// SaveClassification stores the category chosen for an order. A later
// classification of the same order replaces the earlier one.
func (d *DB) SaveClassification(ctx context.Context, c model.DefectClassification) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx, d.rebind(`INSERT INTO defect_classifications
		(order_number, defect_text, category_id, category_name, confidence, method, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (order_number) DO UPDATE SET
		 defect_text = excluded.defect_text, category_id = excluded.category_id,
		 category_name = excluded.category_name, confidence = excluded.confidence,
		 method = excluded.method, created_at = excluded.created_at`),
		c.OrderNumber, c.DefectText, c.CategoryID, c.Category, c.Confidence, c.Method, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("save classification for %s: %w", c.OrderNumber, err)
	}
	return nil
}

// GetClassification loads the stored classification of an order.
func (d *DB) GetClassification(ctx context.Context, orderNumber string) (*model.DefectClassification, error) {
	var c model.DefectClassification
	err := d.db.QueryRowContext(ctx, d.rebind(`SELECT order_number, defect_text, category_id, category_name,
		confidence, method, created_at FROM defect_classifications WHERE order_number = ?`), orderNumber).
		Scan(&c.OrderNumber, &c.DefectText, &c.CategoryID, &c.Category, &c.Confidence, &c.Method, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
