package model

import "time"

// Integrity check names and outcomes.
const (
	CheckTotalRecords   = "total_records"
	CheckValidDateRange = "valid_date_range"
	CheckFinancial      = "financial_calculations"

	IntegrityOK    = "ok"
	IntegrityError = "error"
)

// OrderCounts partitions the stored orders by order-date year against an
// inclusive [MinYear, MaxYear] range.
type OrderCounts struct {
	Total      int `json:"total"`
	InRange    int `json:"in_range"`
	BeforeMin  int `json:"before_min"`
	AfterMax   int `json:"after_max"`
	Unverified int `json:"unverified"`
}

// IntegrityCheck is one re-check of the stored orders.
type IntegrityCheck struct {
	CheckedAt time.Time `json:"checked_at"`
	Check     string    `json:"check"`
	Expected  int       `json:"expected"`
	Actual    int       `json:"actual"`
	Status    string    `json:"status"`
	Details   string    `json:"details"`
}

// IntegrityReport groups the checks of one run.
type IntegrityReport struct {
	CheckedAt time.Time        `json:"checked_at"`
	MinYear   int              `json:"min_year"`
	MaxYear   int              `json:"max_year"`
	Counts    OrderCounts      `json:"counts"`
	Checks    []IntegrityCheck `json:"checks"`
	OK        bool             `json:"ok"`
}
