package pipeline

import (
	"context"

	"service-order-pipeline/internal/model"
)

// OrderStore is the persistence the reconciler depends on.
//
//go:generate mockgen -destination=mocks/mock_store.go -source=interface.go
type OrderStore interface {
	// ExistingOrderNumbers returns which of keys are already stored.
	ExistingOrderNumbers(ctx context.Context, keys []string) (map[string]bool, error)
	// InsertOrders inserts records, ignoring ones whose order number already
	// exists, and returns the order numbers actually written.
	InsertOrders(ctx context.Context, records []model.NormalizedRecord) ([]string, error)
}

// SessionSink records upload sessions for audit. It is write-only from the
// pipeline's point of view.
type SessionSink interface {
	SaveSession(ctx context.Context, s model.UploadSession) error
}

// MechanicStore persists mechanic names seen in uploads.
type MechanicStore interface {
	ExistingMechanics(ctx context.Context, names []string) ([]string, error)
	InsertMechanics(ctx context.Context, names []string, source string) (int64, error)
}

// DefectClassifier assigns a defect category to an order's defect text and
// stores the result.
type DefectClassifier interface {
	ClassifyAndPersist(ctx context.Context, orderNumber, defectText string) (model.DefectClassification, error)
}

// KeyLocker serialises work on natural keys across concurrent runs.
type KeyLocker interface {
	Lock(ctx context.Context, keys []string) (unlock func(), err error)
}

// IntegrityStore exposes the aggregate counts used to re-check stored orders
// and the log the results are appended to.
type IntegrityStore interface {
	OrderCounts(ctx context.Context, minYear, maxYear int) (model.OrderCounts, error)
	SaveIntegrityChecks(ctx context.Context, checks []model.IntegrityCheck) error
}
