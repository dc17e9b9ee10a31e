package pipeline_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	"service-order-pipeline/pkg/utils"
)

func sampleReport() *model.UploadReport {
	return &model.UploadReport{
		UploadID: "2b1c0a4e-upload",
		FileName: "os.xlsx",
		Summary: model.IngestionSummary{
			TotalRows:               3,
			ValidRows:               1,
			RejectedByInvalidStatus: 1,
			RejectedByInvalidDate:   1,
			MathematicallyCorrect:   true,
			Samples: []model.Rejection{
				{Reason: model.RejectInvalidStatus, Row: 3, Field: model.FieldOrderStatus, Value: "X", Detail: `status "X" is not one of G, GO, GU`},
				{Reason: model.RejectInvalidDate, Row: 4, Field: model.FieldOrderDate, Value: "ontem", Detail: "invalid date"},
			},
		},
		Reconciliation: model.ReconciliationResult{Inserted: 1, InsertedKeys: []string{"OS-1"}, SkippedKeys: []string{}},
	}
}

func TestWriteReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, pipeline.WriteReportJSON(&buf, sampleReport()))

	var out struct {
		ExportInfo map[string]interface{} `json:"export_info"`
		Report     model.UploadReport     `json:"report"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "2b1c0a4e-upload", out.ExportInfo["upload_id"])
	assert.Equal(t, 3, out.Report.Summary.TotalRows)
	assert.Equal(t, []string{"OS-1"}, out.Report.Reconciliation.InsertedKeys)
}

func TestWriteRejectedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, pipeline.WriteRejectedCSV(&buf, sampleReport().Summary.Samples))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"row", "reason", "field", "value", "detail"}, lines[0])
	assert.Equal(t, []string{"3", "invalid_status", "orderStatus", "X", `status "X" is not one of G, GO, GU`}, lines[1])
}

func TestSaveReport(t *testing.T) {
	om := utils.NewOutputManager(t.TempDir())

	paths, err := pipeline.SaveReport(om, sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "report.json", filepath.Base(paths[0]))
	assert.Equal(t, "rejected.csv", filepath.Base(paths[1]))
	assert.Equal(t, filepath.Dir(paths[0]), filepath.Dir(paths[1]))

	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), "invalid_date")
}

func TestExportReport_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.json")
	require.NoError(t, pipeline.ExportReport(path, sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
