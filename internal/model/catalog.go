package model

import "time"

// Mechanic sources.
const (
	MechanicAutoDetected = "auto_detected"
	MechanicManual       = "manual"
)

// Mechanic is a technician known to the system.
type Mechanic struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Source    string    `json:"source"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DefectCategory groups defect descriptions under a named bucket.
type DefectCategory struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// DefectClassification links one order's defect text to a category.
type DefectClassification struct {
	OrderNumber string    `json:"order_number"`
	DefectText  string    `json:"defect_text"`
	CategoryID  int64     `json:"category_id"`
	Category    string    `json:"category"`
	Confidence  float64   `json:"confidence"`
	Method      string    `json:"method"`
	CreatedAt   time.Time `json:"created_at"`
}
