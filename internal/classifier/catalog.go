package classifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"service-order-pipeline/internal/model"
)

// CategorySource loads defect categories, normally from the store.
type CategorySource interface {
	ListCategories(ctx context.Context) ([]model.DefectCategory, error)
}

// Catalog caches the defect categories. Concurrent refreshes share one load.
type Catalog struct {
	src   CategorySource
	group singleflight.Group

	mu       sync.RWMutex
	cats     []model.DefectCategory
	loadedAt time.Time
}

func NewCatalog(src CategorySource) *Catalog {
	return &Catalog{src: src}
}

// Refresh reloads the categories from the source.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (interface{}, error) {
		cats, err := c.src.ListCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("load defect categories: %w", err)
		}
		c.mu.Lock()
		c.cats = cats
		c.loadedAt = time.Now()
		c.mu.Unlock()
		return nil, nil
	})
	return err
}

// Categories returns a snapshot of the cached categories.
func (c *Catalog) Categories() []model.DefectCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.DefectCategory, len(c.cats))
	copy(out, c.cats)
	return out
}

// Loaded reports whether Refresh has succeeded at least once.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.loadedAt.IsZero()
}
