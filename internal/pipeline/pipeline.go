package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"service-order-pipeline/internal/metrics"
	"service-order-pipeline/internal/model"
	"service-order-pipeline/pkg/utils"
)

const (
	DefaultRunTimeout    = 15 * time.Minute
	DefaultRunAttempts   = 3
	DefaultRunRetryPause = 2 * time.Second
	DefaultClassifyLimit = 50

	// rows whose rejection is logged at debug level per run
	rejectLogLimit = 5
	// how long background post-processing may take once a run has returned
	backgroundTimeout = 5 * time.Minute
)

// Config tunes one Ingestor. Zero values fall back to the defaults above.
type Config struct {
	Sheet            string
	DateFormats      []string
	Rules            ValidationRules
	SampleSize       int
	RunTimeout       time.Duration
	RunAttempts      int
	RunRetryPause    time.Duration
	Reconcile        ReconcileOptions
	ClassifyLimit    int
	IgnoredMechanics []string
}

// Deps are the collaborators of an Ingestor. Orders is required for non-dry
// runs; every other dependency is optional.
type Deps struct {
	Orders     OrderStore
	Sessions   SessionSink
	Mechanics  MechanicStore
	Classifier DefectClassifier
	Locker     KeyLocker
	Metrics    *metrics.Registry
	Logger     *slog.Logger
}

// Upload is one spreadsheet submitted for ingestion.
type Upload struct {
	FileName string
	Data     []byte
	// DryRun validates only: nothing is written to the store.
	DryRun bool
}

// Ingestor turns uploaded spreadsheets into stored service orders.
type Ingestor struct {
	cfg        Config
	validator  *Validator
	reconciler *Reconciler
	tracker    *SessionTracker
	mechanics  *MechanicDetector
	classifier DefectClassifier
	orders     OrderStore
	metrics    *metrics.Registry
	logger     *slog.Logger

	background sync.WaitGroup
}

func New(cfg Config, deps Deps) (*Ingestor, error) {
	if cfg.Sheet == "" {
		cfg.Sheet = DefaultSheet
	}
	if cfg.SampleSize == 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	if cfg.RunAttempts <= 0 {
		cfg.RunAttempts = DefaultRunAttempts
	}
	if cfg.RunRetryPause <= 0 {
		cfg.RunRetryPause = DefaultRunRetryPause
	}
	if cfg.ClassifyLimit == 0 {
		cfg.ClassifyLimit = DefaultClassifyLimit
	}
	if cfg.Reconcile.Retry.MaxAttempts == 0 {
		cfg.Reconcile.Retry = model.DefaultRetryConfig
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dates, err := NewDateNormalizer(cfg.DateFormats)
	if err != nil {
		return nil, err
	}

	in := &Ingestor{
		cfg:        cfg,
		validator:  NewValidator(dates, cfg.Rules),
		tracker:    NewSessionTracker(deps.Sessions, logger, deps.Metrics),
		classifier: deps.Classifier,
		orders:     deps.Orders,
		metrics:    deps.Metrics,
		logger:     logger,
	}
	if deps.Orders != nil {
		in.reconciler = NewReconciler(deps.Orders, deps.Locker, cfg.Reconcile, logger, deps.Metrics.Retry)
	}
	if deps.Mechanics != nil {
		in.mechanics = NewMechanicDetector(deps.Mechanics, cfg.IgnoredMechanics, logger)
	}
	return in, nil
}

// Ingest reads, validates and transforms one workbook. It fails only when the
// file as a whole cannot be processed; bad rows are counted in the summary.
func (in *Ingestor) Ingest(ctx context.Context, data []byte) (*model.IngestionResult, error) {
	sheet, err := OpenSheet(data, in.cfg.Sheet)
	if err != nil {
		return nil, err
	}
	mapping, err := MapColumns(sheet.Header)
	if err != nil {
		return nil, err
	}

	rows := make(chan model.RawRow, 256)
	go sheet.Stream(ctx, rows)

	agg := NewSummaryAggregator(in.cfg.SampleSize)
	records := make([]model.NormalizedRecord, 0, sheet.Len())
	logged := 0
	for row := range rows {
		outcome := in.validator.Validate(row, mapping)
		agg.Add(outcome)
		if outcome.IsAccepted() {
			records = append(records, *outcome.Record)
			continue
		}
		if logged < rejectLogLimit {
			logged++
			r := outcome.Rejection
			in.logger.Debug("row rejected", "row", r.Row, "reason", r.Reason, "value", utils.Truncate(r.Value, 40), "detail", r.Detail)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ingestion interrupted: %w", err)
	}

	summary := agg.Summary()
	in.logger.Info("workbook ingested",
		"total_rows", summary.TotalRows,
		"valid_rows", summary.ValidRows,
		"rejected_rows", summary.RejectedRows(),
		"mathematically_correct", summary.MathematicallyCorrect)
	if !summary.MathematicallyCorrect {
		in.logger.Error("row accounting mismatch", "summary", summary)
	}
	in.metrics.ObserveSummary(summary)

	return &model.IngestionResult{Records: records, Summary: summary}, nil
}

// Run is the full upload: ingest with whole-run retries on timeout, reconcile
// against the store, record the session, then kick off best-effort
// post-processing in the background.
func (in *Ingestor) Run(ctx context.Context, up Upload) (*model.UploadReport, error) {
	id := uuid.NewString()
	session := in.tracker.Begin(id, up.FileName)
	logger := in.logger.With("upload_id", id, "file", up.FileName)
	logger.Info("upload started", "bytes", len(up.Data), "dry_run", up.DryRun)

	result, attempts, err := in.ingestWithRetry(ctx, up.Data, logger)
	session.Attempts = attempts
	if err != nil {
		logger.Error("upload failed", "attempts", attempts, "error", err)
		if !up.DryRun {
			in.tracker.Fail(ctx, session, err)
		}
		in.metrics.ObserveRun(model.SessionFailed, time.Since(session.StartedAt))
		return nil, err
	}

	report := &model.UploadReport{
		UploadID: id,
		FileName: up.FileName,
		DryRun:   up.DryRun,
		Summary:  result.Summary,
		Attempts: attempts,
		Reconciliation: model.ReconciliationResult{
			InsertedKeys: []string{},
			SkippedKeys:  []string{},
		},
	}

	if !up.DryRun {
		if in.reconciler == nil {
			return nil, errors.New("no order store configured")
		}
		rctx, cancel := context.WithTimeout(ctx, in.cfg.RunTimeout)
		report.Reconciliation = in.reconciler.Reconcile(rctx, result.Records)
		cancel()
		in.metrics.ObserveReconciliation(report.Reconciliation)
		in.tracker.Succeed(ctx, session, result.Summary, report.Reconciliation)
		in.postProcess(ctx, result.Records, report.Reconciliation.InsertedKeys, logger)
	}

	report.Duration = time.Since(session.StartedAt)
	in.metrics.ObserveRun(model.SessionSucceeded, report.Duration)
	logger.Info("upload finished",
		"valid_rows", report.Summary.ValidRows,
		"inserted", report.Reconciliation.Inserted,
		"skipped", report.Reconciliation.Skipped,
		"errors", report.Reconciliation.Errors,
		"duration", report.Duration)
	return report, nil
}

// Wait blocks until background post-processing of earlier runs is done.
func (in *Ingestor) Wait() { in.background.Wait() }

func (in *Ingestor) ingestWithRetry(ctx context.Context, data []byte, logger *slog.Logger) (*model.IngestionResult, int, error) {
	var lastErr error
	for attempt := 1; attempt <= in.cfg.RunAttempts; attempt++ {
		actx, cancel := context.WithTimeout(ctx, in.cfg.RunTimeout)
		result, err := in.Ingest(actx, data)
		cancel()
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err

		if !errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil || attempt == in.cfg.RunAttempts {
			return nil, attempt, err
		}

		pause := in.cfg.RunRetryPause * time.Duration(attempt)
		logger.Warn("ingestion timed out, retrying", "attempt", attempt, "pause", pause)
		select {
		case <-ctx.Done():
			return nil, attempt, ctx.Err()
		case <-time.After(pause):
		}
	}
	return nil, in.cfg.RunAttempts, lastErr
}

// postProcess runs mechanic detection and defect classification detached from
// the request. Failures are logged and counted only.
func (in *Ingestor) postProcess(ctx context.Context, records []model.NormalizedRecord, inserted []string, logger *slog.Logger) {
	if in.mechanics == nil && in.classifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
	in.background.Add(1)
	go func() {
		defer in.background.Done()
		defer cancel()

		if in.mechanics != nil {
			if _, err := in.mechanics.Detect(ctx, records); err != nil {
				logger.Error("mechanic detection failed", "error", err)
				in.metrics.SideChannelFailure("mechanics")
			}
		}
		if in.classifier != nil {
			in.classify(ctx, records, inserted, logger)
		}
	}()
}

func (in *Ingestor) classify(ctx context.Context, records []model.NormalizedRecord, inserted []string, logger *slog.Logger) {
	fresh := make(map[string]struct{}, len(inserted))
	for _, k := range inserted {
		fresh[k] = struct{}{}
	}

	done := 0
	for _, rec := range records {
		if in.cfg.ClassifyLimit > 0 && done >= in.cfg.ClassifyLimit {
			logger.Info("classification limit reached", "limit", in.cfg.ClassifyLimit)
			return
		}
		if rec.RawDefectDescription == nil {
			continue
		}
		if _, ok := fresh[rec.OrderNumber]; !ok {
			continue
		}
		delete(fresh, rec.OrderNumber)
		done++

		if _, err := in.classifier.ClassifyAndPersist(ctx, rec.OrderNumber, *rec.RawDefectDescription); err != nil {
			logger.Error("defect classification failed", "order_number", rec.OrderNumber, "error", err)
			in.metrics.SideChannelFailure("classifier")
			if ctx.Err() != nil {
				return
			}
		}
	}
}
