package pipeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"service-order-pipeline/internal/model"
)

// Date format names accepted in configuration.
const (
	FormatDayMonthSlash = "DD/MM/YYYY"
	FormatDayMonthDash  = "DD-MM-YYYY"
	FormatISO           = "YYYY-MM-DD"
	FormatMonthDaySlash = "MM/DD/YYYY"
)

// DefaultDateFormats is the try-order used when none is configured. Day-first
// wins for ambiguous inputs such as 05/03/2021.
var DefaultDateFormats = []string{
	FormatDayMonthSlash,
	FormatDayMonthDash,
	FormatISO,
	FormatMonthDaySlash,
}

// serialEpoch is day 0 of spreadsheet date serials.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// genericLayouts are tried after every named format fails.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02.01.2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

type dateStrategy struct {
	name    string
	pattern *regexp.Regexp
	// positions of year, month and day in the submatches
	y, m, d int
}

var dateStrategies = map[string]dateStrategy{
	FormatDayMonthSlash: {FormatDayMonthSlash, regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+\d{1,2}:\d{2}:\d{2})?$`), 3, 2, 1},
	FormatDayMonthDash:  {FormatDayMonthDash, regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})(?:\s+\d{1,2}:\d{2}:\d{2})?$`), 3, 2, 1},
	FormatISO:           {FormatISO, regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})(?:\s+\d{1,2}:\d{2}:\d{2})?$`), 1, 2, 3},
	FormatMonthDaySlash: {FormatMonthDaySlash, regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+\d{1,2}:\d{2}:\d{2})?$`), 3, 1, 2},
}

// DateNormalizer turns a cell into a calendar date using a fixed try-order of
// string formats, spreadsheet serials and a generic fallback.
type DateNormalizer struct {
	strategies []dateStrategy
}

// NewDateNormalizer builds a normalizer trying formats in the given order.
// An empty list selects DefaultDateFormats.
func NewDateNormalizer(formats []string) (*DateNormalizer, error) {
	if len(formats) == 0 {
		formats = DefaultDateFormats
	}
	n := &DateNormalizer{}
	for _, f := range formats {
		s, ok := dateStrategies[strings.ToUpper(strings.TrimSpace(f))]
		if !ok {
			return nil, fmt.Errorf("unknown date format %q", f)
		}
		n.strategies = append(n.strategies, s)
	}
	return n, nil
}

// Formats returns the configured try-order.
func (n *DateNormalizer) Formats() []string {
	out := make([]string, len(n.strategies))
	for i, s := range n.strategies {
		out[i] = s.name
	}
	return out
}

// Normalize returns the calendar date held by cell, at midnight UTC.
func (n *DateNormalizer) Normalize(cell model.CellValue) (time.Time, error) {
	switch cell.Kind {
	case model.CellDate:
		if cell.Date.IsZero() {
			return time.Time{}, &DateParseError{Raw: "", Attempted: []string{"native"}}
		}
		return calendarDay(cell.Date), nil
	case model.CellNumber:
		return n.fromSerial(cell)
	case model.CellText:
		return n.fromText(strings.TrimSpace(cell.Raw))
	default:
		return time.Time{}, &DateParseError{Raw: "", Attempted: n.Formats()}
	}
}

func (n *DateNormalizer) fromSerial(cell model.CellValue) (time.Time, error) {
	serial := cell.Number
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return time.Time{}, &DateParseError{Raw: cell.String(), Attempted: []string{"serial"}}
	}
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial))), nil
}

func (n *DateNormalizer) fromText(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, &DateParseError{Raw: raw, Attempted: n.Formats()}
	}

	for _, s := range n.strategies {
		m := s.pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[s.y])
		month, _ := strconv.Atoi(m[s.m])
		day, _ := strconv.Atoi(m[s.d])
		if t, ok := strictDate(year, month, day); ok {
			return t, nil
		}
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return calendarDay(t), nil
		}
	}

	return time.Time{}, &DateParseError{Raw: raw, Attempted: append(n.Formats(), "generic")}
}

// strictDate rejects components that time.Date would silently roll over,
// such as month 15 or 31 February.
func strictDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
