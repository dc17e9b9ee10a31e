package model

// RejectReason categorises why a row was dropped during validation.
type RejectReason string

const (
	RejectMissingField  RejectReason = "missing_required_field"
	RejectInvalidStatus RejectReason = "invalid_status"
	RejectInvalidDate   RejectReason = "invalid_date"
	RejectYearRange     RejectReason = "year_out_of_range"
)

// RejectReasons lists every reason in validation priority order.
var RejectReasons = []RejectReason{
	RejectMissingField,
	RejectInvalidStatus,
	RejectInvalidDate,
	RejectYearRange,
}

// Rejection describes a dropped row with enough context to explain it.
type Rejection struct {
	Reason RejectReason `json:"reason"`
	Row    int          `json:"row"`
	Field  Field        `json:"field,omitempty"`
	Value  string       `json:"value,omitempty"`
	Detail string       `json:"detail"`
}

// ValidationOutcome is the result for exactly one input row: either Record
// is set (accepted) or Rejection is set (rejected), never both.
type ValidationOutcome struct {
	Record    *NormalizedRecord
	Rejection *Rejection
	// Status is the trimmed, upper-cased status cell, filled in whenever the
	// row got past the presence check.
	Status string
}

func Accepted(rec NormalizedRecord, status string) ValidationOutcome {
	return ValidationOutcome{Record: &rec, Status: status}
}

func Rejected(r Rejection, status string) ValidationOutcome {
	return ValidationOutcome{Rejection: &r, Status: status}
}

func (o ValidationOutcome) IsAccepted() bool { return o.Record != nil }
