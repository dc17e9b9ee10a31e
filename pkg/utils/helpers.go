package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseDuration safely parses a duration string like "5m", falling back to def
// when the string is empty or malformed.
func ParseDuration(d string, def time.Duration) time.Duration {
	if d == "" {
		return def
	}
	duration, err := time.ParseDuration(strings.TrimSpace(d))
	if err != nil || duration <= 0 {
		return def
	}
	return duration
}

// ParseDecimal coerces loosely formatted money text into a decimal. A comma is
// read as the decimal separator and every rune other than digits, '.' and '-'
// is dropped, so "R$ 1234,50" becomes 1234.50. Anything unparsable is zero.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Truncate shortens s to at most n runes for log and report output.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
