package pipeline

import (
	"context"
	"log/slog"
	"time"

	"service-order-pipeline/internal/metrics"
	"service-order-pipeline/internal/model"
)

const sessionWriteTimeout = 10 * time.Second

// SessionTracker writes an audit row for every upload. Failures to write are
// logged and counted but never surface to the caller.
type SessionTracker struct {
	sink    SessionSink
	logger  *slog.Logger
	metrics *metrics.Registry
}

func NewSessionTracker(sink SessionSink, logger *slog.Logger, m *metrics.Registry) *SessionTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionTracker{sink: sink, logger: logger, metrics: m}
}

// Begin starts the clock on a new session.
func (t *SessionTracker) Begin(id, fileName string) *model.UploadSession {
	return &model.UploadSession{
		ID:        id,
		FileName:  fileName,
		StartedAt: time.Now().UTC(),
	}
}

// Succeed records a completed upload.
func (t *SessionTracker) Succeed(ctx context.Context, s *model.UploadSession, sum model.IngestionSummary, rec model.ReconciliationResult) {
	s.Status = model.SessionSucceeded
	s.Summary = &sum
	s.Reconciliation = &rec
	t.save(ctx, s)
}

// Fail records an upload that ended with a fatal error.
func (t *SessionTracker) Fail(ctx context.Context, s *model.UploadSession, err error) {
	s.Status = model.SessionFailed
	s.Error = err.Error()
	t.save(ctx, s)
}

func (t *SessionTracker) save(ctx context.Context, s *model.UploadSession) {
	s.FinishedAt = time.Now().UTC()
	s.DurationMillis = s.FinishedAt.Sub(s.StartedAt).Milliseconds()
	if t == nil || t.sink == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionWriteTimeout)
	defer cancel()
	if err := t.sink.SaveSession(ctx, *s); err != nil {
		t.logger.Error("could not record upload session", "upload_id", s.ID, "error", err)
		t.metrics.SideChannelFailure("session")
	}
}
