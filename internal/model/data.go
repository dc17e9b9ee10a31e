package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind tags the variant held by a CellValue.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
	CellDate
)

func (k CellKind) String() string {
	switch k {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellDate:
		return "date"
	default:
		return "empty"
	}
}

// CellValue is one spreadsheet cell as read at the ingestion boundary.
// Raw keeps the source text for Text and Number cells so identifiers such as
// order numbers are never reformatted.
type CellValue struct {
	Kind   CellKind
	Raw    string
	Number float64
	Date   time.Time
}

func Empty() CellValue { return CellValue{Kind: CellEmpty} }

func Text(s string) CellValue { return CellValue{Kind: CellText, Raw: s} }

func Number(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f, Raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

func DateValue(t time.Time) CellValue { return CellValue{Kind: CellDate, Date: t} }

// ParseCell classifies a raw cell string: blank is Empty, anything that parses
// as a finite float is Number, everything else is Text. "NaN" and "Inf" stay
// Text.
func ParseCell(raw string) CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Empty()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return CellValue{Kind: CellNumber, Number: f, Raw: raw}
	}
	return Text(raw)
}

// IsBlank reports whether the cell carries no usable value after trimming.
func (c CellValue) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellDate:
		return c.Date.IsZero()
	default:
		return strings.TrimSpace(c.Raw) == ""
	}
}

// String renders the cell as trimmed text. Dates render as YYYY-MM-DD.
func (c CellValue) String() string {
	switch c.Kind {
	case CellText, CellNumber:
		return strings.TrimSpace(c.Raw)
	case CellDate:
		return c.Date.Format(time.DateOnly)
	default:
		return ""
	}
}

// RawRow is one data row keyed by source column index, plus its 1-based
// spreadsheet row number (the header is row 1).
type RawRow struct {
	Number int
	Cells  []CellValue
}

// Cell returns the cell at idx, or Empty when the column is absent or the row
// is shorter than the header.
func (r RawRow) Cell(idx int) CellValue {
	if idx < 0 || idx >= len(r.Cells) {
		return Empty()
	}
	return r.Cells[idx]
}
