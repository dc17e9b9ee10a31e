package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"service-order-pipeline/internal/model"
)

// MethodKeyword tags classifications made by keyword matching.
const MethodKeyword = "keyword"

// ErrNoCategory means the catalog has no category to fall back to.
var ErrNoCategory = errors.New("no defect category available")

// Store persists classifications.
type Store interface {
	SaveClassification(ctx context.Context, c model.DefectClassification) error
}

// Service classifies defect texts against the catalog and stores the result,
// pacing itself so a large upload cannot flood the store.
type Service struct {
	catalog *Catalog
	store   Store
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds a classifier allowing perSecond calls with the given burst.
// perSecond <= 0 disables pacing.
func NewService(catalog *Catalog, store Store, perSecond float64, burst int, logger *slog.Logger) *Service {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalog: catalog,
		store:   store,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		now:     time.Now,
	}
}

// ClassifyAndPersist classifies defectText for orderNumber and saves it.
func (s *Service) ClassifyAndPersist(ctx context.Context, orderNumber, defectText string) (model.DefectClassification, error) {
	text := strings.TrimSpace(defectText)
	if text == "" {
		return model.DefectClassification{}, fmt.Errorf("order %s has no defect text", orderNumber)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return model.DefectClassification{}, err
	}

	if !s.catalog.Loaded() {
		if err := s.catalog.Refresh(ctx); err != nil {
			return model.DefectClassification{}, err
		}
	}

	res, ok := Classify(text, s.catalog.Categories())
	if !ok {
		return model.DefectClassification{}, ErrNoCategory
	}

	c := model.DefectClassification{
		OrderNumber: orderNumber,
		DefectText:  text,
		CategoryID:  res.Category.ID,
		Category:    res.Category.Name,
		Confidence:  res.Confidence,
		Method:      MethodKeyword,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.SaveClassification(ctx, c); err != nil {
		return model.DefectClassification{}, err
	}
	s.logger.Debug("defect classified", "order_number", orderNumber, "category", c.Category, "matched", res.Matched)
	return c, nil
}
