package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"service-order-pipeline/internal/model"
)

// FallbackCategory receives defects no keyword matches.
const FallbackCategory = "Outros"

// Result is the category picked for one defect text.
type Result struct {
	Category   model.DefectCategory
	Confidence float64
	Matched    []string
}

// Classify picks the category whose keywords occur most often in text,
// ignoring case and accents. Ties go to the category listed first. With no
// match the fallback category is used; ok is false only when there is no
// fallback either.
func Classify(text string, cats []model.DefectCategory) (Result, bool) {
	folded := Fold(text)

	best := -1
	var bestMatched []string
	for i, c := range cats {
		var matched []string
		for _, kw := range c.Keywords {
			if k := Fold(kw); k != "" && strings.Contains(folded, k) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > len(bestMatched) {
			best, bestMatched = i, matched
		}
	}

	if best >= 0 {
		conf := 0.5 + 0.1*float64(len(bestMatched))
		if conf > 0.95 {
			conf = 0.95
		}
		return Result{Category: cats[best], Confidence: conf, Matched: bestMatched}, true
	}

	for _, c := range cats {
		if Fold(c.Name) == Fold(FallbackCategory) {
			return Result{Category: c, Confidence: 0.1}, true
		}
	}
	return Result{}, false
}

// Fold lower-cases s, strips diacritics and collapses whitespace.
func Fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
