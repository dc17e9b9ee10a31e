package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"service-order-pipeline/internal/model"
)

// DefaultSheet is the sheet every service-order export carries.
const DefaultSheet = "Tabela"

// Sheet is the header and data rows of one worksheet, read fully into memory.
type Sheet struct {
	Name   string
	Header []string
	rows   [][]string
}

// OpenSheet reads the named worksheet out of an xlsx payload. Cells are read
// raw so date-formatted cells surface as their serial number.
func OpenSheet(data []byte, name string) (*Sheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	found := false
	for _, s := range sheets {
		if s == name {
			found = true
			break
		}
	}
	if !found {
		return nil, &MissingSheetError{Want: name, Found: sheets}
	}

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrUnreadableWorkbook, name, err)
	}

	s := &Sheet{Name: name}
	if len(rows) == 0 {
		return s, nil
	}
	s.Header = rows[0]
	s.rows = trimTrailingBlank(rows[1:])
	return s, nil
}

// Len is the number of data rows below the header.
func (s *Sheet) Len() int { return len(s.rows) }

// Stream sends each data row, in sheet order, until the sheet is exhausted or
// ctx is done. It closes out when finished.
func (s *Sheet) Stream(ctx context.Context, out chan<- model.RawRow) {
	defer close(out)
	for i, cols := range s.rows {
		row := model.RawRow{Number: i + 2, Cells: make([]model.CellValue, len(cols))}
		for j, raw := range cols {
			row.Cells[j] = model.ParseCell(raw)
		}
		select {
		case <-ctx.Done():
			return
		case out <- row:
		}
	}
}

func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 0 && blankRow(rows[end-1]) {
		end--
	}
	return rows[:end]
}

func blankRow(cols []string) bool {
	for _, c := range cols {
		if model.ParseCell(c).Kind != model.CellEmpty {
			return false
		}
	}
	return true
}
