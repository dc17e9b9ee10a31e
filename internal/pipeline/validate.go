package pipeline

import (
	"fmt"
	"strings"
	"time"

	"service-order-pipeline/internal/model"
)

const (
	DefaultMinYear = 2019
	DefaultMaxYear = 2025
)

// ValidationRules bounds what the validator accepts.
type ValidationRules struct {
	MinYear int
	MaxYear int
	// RejectFutureDates drops dates in the current year more than one month ahead.
	RejectFutureDates bool
}

// Validator applies the row checks in fixed priority: presence, status, date,
// year. The first failing check decides the rejection reason.
type Validator struct {
	dates *DateNormalizer
	rules ValidationRules
	now   func() time.Time
}

func NewValidator(dates *DateNormalizer, rules ValidationRules) *Validator {
	if rules.MinYear == 0 {
		rules.MinYear = DefaultMinYear
	}
	if rules.MaxYear == 0 {
		rules.MaxYear = DefaultMaxYear
	}
	return &Validator{dates: dates, rules: rules, now: time.Now}
}

// Validate produces exactly one outcome for row.
func (v *Validator) Validate(row model.RawRow, m model.ColumnMapping) model.ValidationOutcome {
	for _, f := range RequiredFields {
		if row.Cell(m.Index(f)).IsBlank() {
			return model.Rejected(rejection(model.RejectMissingField, row.Number, f, "",
				fmt.Sprintf("%s is empty", f)), "")
		}
	}

	statusCell := row.Cell(m.Index(model.FieldOrderStatus))
	status := strings.ToUpper(statusCell.String())
	if _, ok := model.ValidStatuses[model.OrderStatus(status)]; !ok {
		return model.Rejected(rejection(model.RejectInvalidStatus, row.Number, model.FieldOrderStatus, status,
			fmt.Sprintf("status %q is not one of G, GO, GU", status)), status)
	}

	dateCell := row.Cell(m.Index(model.FieldOrderDate))
	date, err := v.dates.Normalize(dateCell)
	if err != nil {
		return model.Rejected(rejection(model.RejectInvalidDate, row.Number, model.FieldOrderDate, dateCell.String(),
			err.Error()), status)
	}

	if y := date.Year(); y < v.rules.MinYear || y > v.rules.MaxYear {
		return model.Rejected(rejection(model.RejectYearRange, row.Number, model.FieldOrderDate, date.Format(time.DateOnly),
			fmt.Sprintf("year %d outside %d-%d", y, v.rules.MinYear, v.rules.MaxYear)), status)
	}

	if v.rules.RejectFutureDates {
		now := v.now()
		if date.Year() == now.Year() && int(date.Month()) > int(now.Month())+1 {
			return model.Rejected(rejection(model.RejectYearRange, row.Number, model.FieldOrderDate, date.Format(time.DateOnly),
				fmt.Sprintf("date %s is in the future", date.Format(time.DateOnly))), status)
		}
	}

	return model.Accepted(Transform(row, m, date, model.OrderStatus(status)), status)
}
