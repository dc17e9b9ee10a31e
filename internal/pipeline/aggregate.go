package pipeline

import (
	"sort"

	"service-order-pipeline/internal/model"
)

// DefaultSampleSize is how many rejected rows are kept per reason.
const DefaultSampleSize = 10

// SummaryAggregator folds validation outcomes into an IngestionSummary and
// keeps a bounded sample of rejected rows per reason.
type SummaryAggregator struct {
	summary    model.IngestionSummary
	sampleSize int
	sampled    map[model.RejectReason]int
}

func NewSummaryAggregator(sampleSize int) *SummaryAggregator {
	if sampleSize < 0 {
		sampleSize = 0
	}
	return &SummaryAggregator{
		sampleSize: sampleSize,
		sampled:    make(map[model.RejectReason]int),
		summary: model.IngestionSummary{
			StatusDistribution: make(map[string]int),
			StatusSeen:         make(map[string]int),
			YearDistribution:   make(map[int]int),
		},
	}
}

// Add records one outcome. Every row read must be added exactly once.
func (a *SummaryAggregator) Add(o model.ValidationOutcome) {
	s := &a.summary
	s.TotalRows++
	if o.Status != "" {
		s.StatusSeen[o.Status]++
	}

	if o.IsAccepted() {
		s.ValidRows++
		s.StatusDistribution[string(o.Record.OrderStatus)]++
		s.YearDistribution[o.Record.OrderDate.Year()]++
		return
	}

	r := o.Rejection
	switch r.Reason {
	case model.RejectMissingField:
		s.RejectedByMissingFields++
	case model.RejectInvalidStatus:
		s.RejectedByInvalidStatus++
	case model.RejectInvalidDate:
		s.RejectedByInvalidDate++
	case model.RejectYearRange:
		s.RejectedByYearRange++
	}

	if a.sampled[r.Reason] < a.sampleSize {
		a.sampled[r.Reason]++
		s.Samples = append(s.Samples, *r)
	}
}

// Summary returns the finished tally with the reconciliation check filled in.
func (a *SummaryAggregator) Summary() model.IngestionSummary {
	s := a.summary
	s.MathematicallyCorrect = s.TotalRows == s.ValidRows+s.RejectedRows()
	sort.SliceStable(s.Samples, func(i, j int) bool { return s.Samples[i].Row < s.Samples[j].Row })
	return s
}
