package pipeline

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/pkg/utils"
)

var (
	two            = decimal.NewFromInt(2)
	matchTolerance = decimal.RequireFromString("0.01")
)

// Transform builds the persisted form of a row that passed validation. The
// parts value of the export is doubled at the source, so it is halved here and
// the raw figure kept for audit.
func Transform(row model.RawRow, m model.ColumnMapping, date time.Time, status model.OrderStatus) model.NormalizedRecord {
	original := money(row.Cell(m.Index(model.FieldPartsTotal)))
	parts := original.Div(two)
	labor := money(row.Cell(m.Index(model.FieldLaborTotal)))
	grand := money(row.Cell(m.Index(model.FieldGrandTotal)))

	return model.NormalizedRecord{
		RowNumber:            row.Number,
		OrderNumber:          row.Cell(m.Index(model.FieldOrderNumber)).String(),
		OrderDate:            date,
		OrderStatus:          status,
		EngineManufacturer:   optional(row.Cell(m.Index(model.FieldEngineManufacturer))),
		EngineDescription:    optional(row.Cell(m.Index(model.FieldEngineDescription))),
		VehicleModel:         optional(row.Cell(m.Index(model.FieldVehicleModel))),
		RawDefectDescription: optional(row.Cell(m.Index(model.FieldDefectDescription))),
		ResponsibleMechanic:  optional(row.Cell(m.Index(model.FieldMechanic))),
		PartsTotal:           parts,
		LaborTotal:           labor,
		GrandTotal:           grand,
		OriginalPartsValue:   original,
		CalculationVerified:  parts.Add(labor).Sub(grand).Abs().LessThan(matchTolerance),
	}
}

func optional(c model.CellValue) *string {
	s := c.String()
	if s == "" {
		return nil
	}
	return &s
}

func money(c model.CellValue) decimal.Decimal {
	switch c.Kind {
	case model.CellNumber:
		if math.IsNaN(c.Number) || math.IsInf(c.Number, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(c.Number)
	case model.CellText:
		return utils.ParseDecimal(c.Raw)
	default:
		return decimal.Zero
	}
}
