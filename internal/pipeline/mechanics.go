package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"service-order-pipeline/internal/model"
)

// DefaultIgnoredMechanics are placeholder names left in test exports.
var DefaultIgnoredMechanics = []string{"TESTE"}

// MechanicDetector registers mechanic names it has not seen before.
type MechanicDetector struct {
	store  MechanicStore
	ignore map[string]struct{}
	logger *slog.Logger
}

func NewMechanicDetector(store MechanicStore, ignore []string, logger *slog.Logger) *MechanicDetector {
	if ignore == nil {
		ignore = DefaultIgnoredMechanics
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &MechanicDetector{store: store, ignore: make(map[string]struct{}, len(ignore)), logger: logger}
	for _, name := range ignore {
		d.ignore[strings.ToUpper(NormalizeName(name))] = struct{}{}
	}
	return d
}

// NormalizeName trims and composes a name so visually equal names compare equal.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// Candidates returns the distinct usable mechanic names of records in first-seen order.
func (d *MechanicDetector) Candidates(records []model.NormalizedRecord) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, rec := range records {
		if rec.ResponsibleMechanic == nil {
			continue
		}
		name := NormalizeName(*rec.ResponsibleMechanic)
		if name == "" {
			continue
		}
		if _, skip := d.ignore[strings.ToUpper(name)]; skip {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Detect stores mechanics from records that are not registered yet and
// returns how many were added.
func (d *MechanicDetector) Detect(ctx context.Context, records []model.NormalizedRecord) (int, error) {
	names := d.Candidates(records)
	if len(names) == 0 {
		return 0, nil
	}

	existing, err := d.store.ExistingMechanics(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("lookup mechanics: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		known[NormalizeName(n)] = struct{}{}
	}

	var added []string
	for _, n := range names {
		if _, ok := known[n]; !ok {
			added = append(added, n)
		}
	}
	if len(added) == 0 {
		return 0, nil
	}

	n, err := d.store.InsertMechanics(ctx, added, model.MechanicAutoDetected)
	if err != nil {
		return 0, fmt.Errorf("insert mechanics: %w", err)
	}
	d.logger.Info("registered new mechanics", "count", n, "names", added)
	return int(n), nil
}
