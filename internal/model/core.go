package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Field is the canonical name of a service-order column.
type Field string

const (
	FieldOrderNumber        Field = "orderNumber"
	FieldOrderDate          Field = "orderDate"
	FieldOrderStatus        Field = "orderStatus"
	FieldEngineManufacturer Field = "engineManufacturer"
	FieldEngineDescription  Field = "engineDescription"
	FieldVehicleModel       Field = "vehicleModel"
	FieldDefectDescription  Field = "rawDefectDescription"
	FieldMechanic           Field = "responsibleMechanic"
	FieldPartsTotal         Field = "partsTotal"
	FieldLaborTotal         Field = "laborTotal"
	FieldGrandTotal         Field = "grandTotal"
)

// ColumnMapping maps canonical fields to source column indexes. Optional
// fields missing from the header map to -1. Build it with the column mapper;
// the zero value is not usable.
type ColumnMapping struct {
	index map[Field]int
}

// NewColumnMapping copies idx so the mapping cannot be mutated afterwards.
func NewColumnMapping(idx map[Field]int) ColumnMapping {
	m := make(map[Field]int, len(idx))
	for k, v := range idx {
		m[k] = v
	}
	return ColumnMapping{index: m}
}

// Index returns the source column for f, or -1 when the column is absent.
func (m ColumnMapping) Index(f Field) int {
	if i, ok := m.index[f]; ok {
		return i
	}
	return -1
}

// Has reports whether f resolved to a header column.
func (m ColumnMapping) Has(f Field) bool { return m.Index(f) >= 0 }

// OrderStatus is the warranty classification of a service order.
type OrderStatus string

const (
	StatusG  OrderStatus = "G"
	StatusGO OrderStatus = "GO"
	StatusGU OrderStatus = "GU"
)

// ValidStatuses is the closed set of accepted statuses.
var ValidStatuses = map[OrderStatus]struct{}{
	StatusG:  {},
	StatusGO: {},
	StatusGU: {},
}

// NormalizedRecord is a validated service order ready for persistence.
type NormalizedRecord struct {
	RowNumber            int             `json:"row_number"`
	OrderNumber          string          `json:"order_number"`
	OrderDate            time.Time       `json:"order_date"`
	OrderStatus          OrderStatus     `json:"order_status"`
	EngineManufacturer   *string         `json:"engine_manufacturer"`
	EngineDescription    *string         `json:"engine_description"`
	VehicleModel         *string         `json:"vehicle_model"`
	RawDefectDescription *string         `json:"raw_defect_description"`
	ResponsibleMechanic  *string         `json:"responsible_mechanic"`
	PartsTotal           decimal.Decimal `json:"parts_total"`
	LaborTotal           decimal.Decimal `json:"labor_total"`
	GrandTotal           decimal.Decimal `json:"grand_total"`
	OriginalPartsValue   decimal.Decimal `json:"original_parts_value"`
	CalculationVerified  bool            `json:"calculation_verified"`
}
