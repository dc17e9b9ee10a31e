package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var standardHeader = []interface{}{
	"NOrdem_OSv", "Data_OSv", "Status_OSv", "Fabricante_Mot", "Descricao_Mot", "ModeloVei_Osv",
	"ObsCorpo_OSv", "RazaoSocial_Cli", "TotalProd_OSv", "TotalServ_OSv", "Total_OSv",
}

// orderRow builds a full data row in standardHeader order.
func orderRow(number interface{}, date interface{}, status string, mechanic, defect string, parts, labor, total float64) []interface{} {
	return []interface{}{number, date, status, "MWM", "4.12 TCE", "F-4000", defect, mechanic, parts, labor, total}
}

// buildWorkbook writes sheet rows (header first) into an xlsx payload. A nil
// row leaves that spreadsheet row empty.
func buildWorkbook(t *testing.T, sheet string, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func strPtr(s string) *string { return &s }
