package pipeline

import "service-order-pipeline/internal/model"

// HeaderNames maps each canonical field to the exact header of the export.
var HeaderNames = map[model.Field]string{
	model.FieldOrderNumber:        "NOrdem_OSv",
	model.FieldOrderDate:          "Data_OSv",
	model.FieldOrderStatus:        "Status_OSv",
	model.FieldEngineManufacturer: "Fabricante_Mot",
	model.FieldEngineDescription:  "Descricao_Mot",
	model.FieldVehicleModel:       "ModeloVei_Osv",
	model.FieldDefectDescription:  "ObsCorpo_OSv",
	model.FieldMechanic:           "RazaoSocial_Cli",
	model.FieldPartsTotal:         "TotalProd_OSv",
	model.FieldLaborTotal:         "TotalServ_OSv",
	model.FieldGrandTotal:         "Total_OSv",
}

// RequiredFields must all resolve for a workbook to be processed.
var RequiredFields = []model.Field{
	model.FieldOrderNumber,
	model.FieldOrderDate,
	model.FieldOrderStatus,
}

// MapColumns locates every known header by case-sensitive exact match. When
// required headers are absent the error lists all of them.
func MapColumns(header []string) (model.ColumnMapping, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	idx := make(map[model.Field]int, len(HeaderNames))
	for field, name := range HeaderNames {
		if i, ok := positions[name]; ok {
			idx[field] = i
		}
	}

	var missing []string
	for _, f := range RequiredFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, HeaderNames[f])
		}
	}
	if len(missing) > 0 {
		return model.ColumnMapping{}, &MissingColumnsError{Missing: missing}
	}
	return model.NewColumnMapping(idx), nil
}
