package model

import (
	"time"
)

// IngestionSummary is the per-run accounting of every row read from the sheet.
type IngestionSummary struct {
	TotalRows               int            `json:"total_rows"`
	ValidRows               int            `json:"valid_rows"`
	RejectedByMissingFields int            `json:"rejected_by_missing_fields"`
	RejectedByInvalidStatus int            `json:"rejected_by_invalid_status"`
	RejectedByInvalidDate   int            `json:"rejected_by_invalid_date"`
	RejectedByYearRange     int            `json:"rejected_by_year_range"`
	StatusDistribution      map[string]int `json:"status_distribution"`
	StatusSeen              map[string]int `json:"status_seen"`
	YearDistribution        map[int]int    `json:"year_distribution"`
	MathematicallyCorrect   bool           `json:"mathematically_correct"`
	Samples                 []Rejection    `json:"rejected_samples"`
}

// RejectedRows sums all rejection categories.
func (s IngestionSummary) RejectedRows() int {
	return s.RejectedByMissingFields + s.RejectedByInvalidStatus + s.RejectedByInvalidDate + s.RejectedByYearRange
}

// Rejected returns the count for one reason.
func (s IngestionSummary) Rejected(r RejectReason) int {
	switch r {
	case RejectMissingField:
		return s.RejectedByMissingFields
	case RejectInvalidStatus:
		return s.RejectedByInvalidStatus
	case RejectInvalidDate:
		return s.RejectedByInvalidDate
	case RejectYearRange:
		return s.RejectedByYearRange
	}
	return 0
}

// IngestionResult is what one successful ingestion of a workbook produces.
type IngestionResult struct {
	Records []NormalizedRecord `json:"-"`
	Summary IngestionSummary   `json:"summary"`
}

// ReconciliationResult is the outcome of reconciling one batch against the
// store. Inserted + Skipped + Errors always equals the number of records given.
type ReconciliationResult struct {
	Inserted          int      `json:"inserted_count"`
	Skipped           int      `json:"skipped_count"`
	Errors            int      `json:"error_count"`
	DuplicatesInBatch int      `json:"duplicates_in_batch"`
	InsertedKeys      []string `json:"inserted_keys"`
	SkippedKeys       []string `json:"skipped_keys"`
	DuplicateKeys     []string `json:"duplicate_keys,omitempty"`
	ErrorKeys         []string `json:"error_keys,omitempty"`
}

// Session statuses written to the audit sink.
const (
	SessionSucceeded = "succeeded"
	SessionFailed    = "failed"
)

// UploadSession is the audit record of one upload, success or failure.
type UploadSession struct {
	ID             string                `json:"id"`
	FileName       string                `json:"file_name"`
	Status         string                `json:"status"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at"`
	DurationMillis int64                 `json:"duration_ms"`
	Attempts       int                   `json:"attempts"`
	Summary        *IngestionSummary     `json:"summary,omitempty"`
	Reconciliation *ReconciliationResult `json:"reconciliation,omitempty"`
	Error          string                `json:"error,omitempty"`
}

// UploadReport is returned to the caller of a full upload run.
type UploadReport struct {
	UploadID       string               `json:"upload_id"`
	FileName       string               `json:"file_name"`
	DryRun         bool                 `json:"dry_run"`
	Summary        IngestionSummary     `json:"summary"`
	Reconciliation ReconciliationResult `json:"reconciliation"`
	Attempts       int                  `json:"attempts"`
	Duration       time.Duration        `json:"duration_ns"`
}
