package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"service-order-pipeline/internal/model"
)

// IntegrityChecker re-checks the stored orders against the rules uploads are
// validated with and appends the outcome to the integrity log.
type IntegrityChecker struct {
	store  IntegrityStore
	rules  ValidationRules
	logger *slog.Logger
	now    func() time.Time
}

func NewIntegrityChecker(store IntegrityStore, rules ValidationRules, logger *slog.Logger) *IntegrityChecker {
	if rules.MinYear == 0 {
		rules.MinYear = DefaultMinYear
	}
	if rules.MaxYear == 0 {
		rules.MaxYear = DefaultMaxYear
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrityChecker{store: store, rules: rules, logger: logger, now: time.Now}
}

// Check runs every check. Only a failure to read the counts is returned as an
// error; a failed write to the log is logged and the report still returned.
func (c *IntegrityChecker) Check(ctx context.Context) (*model.IntegrityReport, error) {
	counts, err := c.store.OrderCounts(ctx, c.rules.MinYear, c.rules.MaxYear)
	if err != nil {
		return nil, err
	}

	at := c.now().UTC()
	outside := counts.BeforeMin + counts.AfterMax
	checks := []model.IntegrityCheck{
		check(at, model.CheckTotalRecords, counts.Total, counts.InRange+outside,
			fmt.Sprintf("in range %d, before %d, after %d", counts.InRange, counts.BeforeMin, counts.AfterMax)),
		check(at, model.CheckValidDateRange, counts.Total, counts.InRange,
			fmt.Sprintf("%d orders outside %d-%d", outside, c.rules.MinYear, c.rules.MaxYear)),
		check(at, model.CheckFinancial, counts.Total, counts.Total-counts.Unverified,
			fmt.Sprintf("%d orders where parts plus labor does not match the total", counts.Unverified)),
	}

	report := &model.IntegrityReport{
		CheckedAt: at,
		MinYear:   c.rules.MinYear,
		MaxYear:   c.rules.MaxYear,
		Counts:    counts,
		Checks:    checks,
		OK:        true,
	}
	for _, ch := range checks {
		if ch.Status != model.IntegrityOK {
			report.OK = false
			c.logger.Warn("integrity check failed", "check", ch.Check, "expected", ch.Expected, "actual", ch.Actual, "details", ch.Details)
		}
	}

	if err := c.store.SaveIntegrityChecks(ctx, checks); err != nil {
		c.logger.Error("could not record integrity checks", "error", err)
	}
	return report, nil
}

func check(at time.Time, name string, expected, actual int, details string) model.IntegrityCheck {
	status := model.IntegrityOK
	if expected != actual {
		status = model.IntegrityError
	}
	return model.IntegrityCheck{
		CheckedAt: at,
		Check:     name,
		Expected:  expected,
		Actual:    actual,
		Status:    status,
		Details:   details,
	}
}
