package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"service-order-pipeline/internal/model"
)

var (
	// ErrEmptyFile is returned when the upload carries no bytes.
	ErrEmptyFile = errors.New("uploaded file is empty")
	// ErrUnreadableWorkbook is returned when the bytes are not a readable spreadsheet.
	ErrUnreadableWorkbook = errors.New("file is not a readable spreadsheet")
)

// MissingSheetError reports that the required sheet is absent.
type MissingSheetError struct {
	Want  string
	Found []string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("sheet %q not found; available sheets: %s", e.Want, strings.Join(e.Found, ", "))
}

// MissingColumnsError lists every required header that could not be found.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s", strings.Join(e.Missing, ", "))
}

// DateParseError carries the raw cell and every format that was tried.
type DateParseError struct {
	Raw       string
	Attempted []string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("invalid date %q (tried %s)", e.Raw, strings.Join(e.Attempted, ", "))
}

// IsFatal reports whether err aborts an ingestion run as opposed to a single row.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var sheetErr *MissingSheetError
	var colErr *MissingColumnsError
	return errors.Is(err, ErrEmptyFile) ||
		errors.Is(err, ErrUnreadableWorkbook) ||
		errors.As(err, &sheetErr) ||
		errors.As(err, &colErr)
}

func rejection(reason model.RejectReason, row int, field model.Field, value, detail string) model.Rejection {
	return model.Rejection{Reason: reason, Row: row, Field: field, Value: value, Detail: detail}
}
