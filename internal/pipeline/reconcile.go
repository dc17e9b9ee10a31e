package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"service-order-pipeline/internal/model"
)

const (
	DefaultLookupBatchSize = 1000
	DefaultInsertBatchSize = 100
)

// ReconcileOptions sizes store round-trips and their retry policy.
type ReconcileOptions struct {
	LookupBatchSize int
	InsertBatchSize int
	Retry           model.RetryConfig
}

// Reconciler inserts new orders and skips ones already stored. Existing rows
// are never updated: the first upload of an order number wins.
type Reconciler struct {
	store   OrderStore
	locker  KeyLocker
	opts    ReconcileOptions
	retrier *Retrier
	logger  *slog.Logger
}

// NewReconciler wires a reconciler. locker may be nil, in which case only the
// store's uniqueness constraint guards against concurrent uploads.
func NewReconciler(store OrderStore, locker KeyLocker, opts ReconcileOptions, logger *slog.Logger, onRetry func(op string)) *Reconciler {
	if opts.LookupBatchSize <= 0 {
		opts.LookupBatchSize = DefaultLookupBatchSize
	}
	if opts.InsertBatchSize <= 0 {
		opts.InsertBatchSize = DefaultInsertBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		store:   store,
		locker:  locker,
		opts:    opts,
		retrier: NewRetrier(opts.Retry, logger, onRetry),
		logger:  logger,
	}
}

// Reconcile accounts for every record exactly once as inserted, skipped or
// errored. Repeated order numbers within records keep the first occurrence;
// the rest are skipped and listed in DuplicateKeys.
func (r *Reconciler) Reconcile(ctx context.Context, records []model.NormalizedRecord) model.ReconciliationResult {
	res := model.ReconciliationResult{
		InsertedKeys: []string{},
		SkippedKeys:  []string{},
	}

	unique := make([]model.NormalizedRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.OrderNumber]; dup {
			res.Skipped++
			res.DuplicatesInBatch++
			res.DuplicateKeys = append(res.DuplicateKeys, rec.OrderNumber)
			continue
		}
		seen[rec.OrderNumber] = struct{}{}
		unique = append(unique, rec)
	}

	fresh := r.partitionExisting(ctx, unique, &res)

	for start := 0; start < len(fresh); start += r.opts.InsertBatchSize {
		end := min(start+r.opts.InsertBatchSize, len(fresh))
		r.insertBatch(ctx, fresh[start:end], start/r.opts.InsertBatchSize+1, &res)
	}

	r.logger.Info("reconciliation finished",
		"records", len(records),
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"errors", res.Errors,
		"duplicates_in_batch", res.DuplicatesInBatch)
	return res
}

// partitionExisting looks keys up in bounded batches and returns the records
// not yet stored. Stored ones are skipped; a failed lookup errors its batch.
func (r *Reconciler) partitionExisting(ctx context.Context, records []model.NormalizedRecord, res *model.ReconciliationResult) []model.NormalizedRecord {
	fresh := make([]model.NormalizedRecord, 0, len(records))
	for start := 0; start < len(records); start += r.opts.LookupBatchSize {
		batch := records[start:min(start+r.opts.LookupBatchSize, len(records))]

		var existing map[string]bool
		err := r.retrier.Do(ctx, "lookup", func(ctx context.Context) error {
			var err error
			existing, err = r.store.ExistingOrderNumbers(ctx, orderNumbers(batch))
			return err
		})
		if err != nil {
			r.logger.Error("existence lookup failed", "batch_start", start, "size", len(batch), "error", err)
			markErrored(batch, res)
			continue
		}

		for _, rec := range batch {
			if existing[rec.OrderNumber] {
				res.Skipped++
				res.SkippedKeys = append(res.SkippedKeys, rec.OrderNumber)
				continue
			}
			fresh = append(fresh, rec)
		}
	}
	return fresh
}

// insertBatch holds the batch's key locks while it re-checks existence and
// inserts, so a concurrent upload of the same orders cannot interleave.
func (r *Reconciler) insertBatch(ctx context.Context, batch []model.NormalizedRecord, n int, res *model.ReconciliationResult) {
	var inserted, raced []string

	err := r.retrier.Do(ctx, "insert", func(ctx context.Context) error {
		inserted, raced = nil, nil
		keys := orderNumbers(batch)

		if r.locker != nil {
			unlock, err := r.locker.Lock(ctx, keys)
			if err != nil {
				return fmt.Errorf("lock keys: %w", err)
			}
			defer unlock()

			existing, err := r.store.ExistingOrderNumbers(ctx, keys)
			if err != nil {
				return err
			}
			pending := batch[:0:0]
			for _, rec := range batch {
				if existing[rec.OrderNumber] {
					raced = append(raced, rec.OrderNumber)
					continue
				}
				pending = append(pending, rec)
			}
			if len(pending) == 0 {
				return nil
			}
			written, err := r.store.InsertOrders(ctx, pending)
			if err != nil {
				return err
			}
			inserted = written
			raced = append(raced, missingFrom(orderNumbers(pending), written)...)
			return nil
		}

		written, err := r.store.InsertOrders(ctx, batch)
		if err != nil {
			return err
		}
		inserted = written
		raced = missingFrom(keys, written)
		return nil
	})
	if err != nil {
		r.logger.Error("insert batch failed", "batch", n, "size", len(batch), "error", err)
		markErrored(batch, res)
		return
	}

	res.Inserted += len(inserted)
	res.InsertedKeys = append(res.InsertedKeys, inserted...)
	res.Skipped += len(raced)
	res.SkippedKeys = append(res.SkippedKeys, raced...)
}

func markErrored(batch []model.NormalizedRecord, res *model.ReconciliationResult) {
	res.Errors += len(batch)
	for _, rec := range batch {
		res.ErrorKeys = append(res.ErrorKeys, rec.OrderNumber)
	}
}

func orderNumbers(records []model.NormalizedRecord) []string {
	keys := make([]string, len(records))
	for i, rec := range records {
		keys[i] = rec.OrderNumber
	}
	return keys
}

// missingFrom returns the keys of all that are not in got.
func missingFrom(all, got []string) []string {
	in := make(map[string]struct{}, len(got))
	for _, k := range got {
		in[k] = struct{}{}
	}
	var out []string
	for _, k := range all {
		if _, ok := in[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}
