package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/pkg/utils"
)

// ExportReport writes report to path as JSON, or as a CSV of the rejected
// samples when path ends in .csv.
func ExportReport(path string, report *model.UploadReport) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch utils.FileType(path) {
	case "csv":
		err = WriteRejectedCSV(file, report.Summary.Samples)
	default:
		err = WriteReportJSON(file, report)
	}
	if err != nil {
		return err
	}
	return file.Close()
}

// SaveReport stores both renderings of a report under the upload's own
// directory and returns the paths written.
func SaveReport(om *utils.OutputManager, report *model.UploadReport) ([]string, error) {
	var paths []string
	for _, name := range []string{"report.json", "rejected.csv"} {
		p, err := om.OutputFilePath(report.UploadID, name)
		if err != nil {
			return paths, err
		}
		if err := ExportReport(p, report); err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// WriteReportJSON encodes the report with export metadata.
func WriteReportJSON(w io.Writer, report *model.UploadReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	exportData := map[string]interface{}{
		"export_info": map[string]interface{}{
			"upload_id":   report.UploadID,
			"exported_at": time.Now().UTC(),
			"file_name":   report.FileName,
		},
		"report": report,
	}
	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// WriteRejectedCSV writes one line per sampled rejected row.
func WriteRejectedCSV(w io.Writer, samples []model.Rejection) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"row", "reason", "field", "value", "detail"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range samples {
		row := []string{strconv.Itoa(r.Row), string(r.Reason), string(r.Field), r.Value, r.Detail}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
