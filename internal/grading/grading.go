// Package grading holds the pure grade arithmetic: category averages, the weighted
// final grade and the legacy flat-partials mean. Nothing here touches storage.
package grading

import "fmt"

// Score scale.
const (
	MinScore = 0.0
	MaxScore = 20.0
)

// Slot counts per category.
const (
	ActivityCount      = 8
	PracticeCount      = 4
	PartialExamCount   = 2
	LegacyPartialCount = 4
)

// Fixed category weights. A missing category contributes 0; weights are not re-normalised.
const (
	ActivityWeight    = 0.10
	PracticeWeight    = 0.30
	PartialExamWeight = 0.60
)

type (
	ActivityItems    [ActivityCount]float64
	PracticeItems    [PracticeCount]float64
	PartialExamItems [PartialExamCount]float64
	LegacyPartials   [LegacyPartialCount]float64
)

func (a ActivityItems) Average() float64    { return Average(a[:]) }
func (p PracticeItems) Average() float64    { return Average(p[:]) }
func (e PartialExamItems) Average() float64 { return Average(e[:]) }

// Scheme selects how a course computes its final grade.
type Scheme string

const (
	SchemeCategory       Scheme = "category"
	SchemeLegacyPartials Scheme = "legacy_partials"
)

// ParseScheme validates a stored or submitted scheme tag. Empty means SchemeCategory.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SchemeCategory:
		return SchemeCategory, nil
	case SchemeLegacyPartials:
		return SchemeLegacyPartials, nil
	}
	return "", fmt.Errorf("unknown grading scheme %q", s)
}

// Average is the arithmetic mean of the values > 0. Zero means unset, so it is skipped.
// Returns 0 when nothing is set.
func Average(items []float64) float64 {
	var sum float64
	n := 0
	for _, v := range items {
		if v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// CategoryAverages are the three per-category averages feeding the weighted final.
type CategoryAverages struct {
	Activity    float64
	Practice    float64
	PartialExam float64
}

// Weighted combines the category averages with the fixed weights.
func Weighted(avg CategoryAverages) float64 {
	return ActivityWeight*avg.Activity + PracticeWeight*avg.Practice + PartialExamWeight*avg.PartialExam
}

// LegacyMean averages the first partialCount legacy partials that are > 0.
// partialCount is clamped to [1, 4].
func LegacyMean(p LegacyPartials, partialCount int) float64 {
	return Average(p[:clampPartialCount(partialCount)])
}

// Used returns a copy with the slots past partialCount forced to 0.
func (p LegacyPartials) Used(partialCount int) LegacyPartials {
	var out LegacyPartials
	copy(out[:], p[:clampPartialCount(partialCount)])
	return out
}

func clampPartialCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > LegacyPartialCount {
		return LegacyPartialCount
	}
	return n
}

// Inputs carries everything Final needs for either scheme.
type Inputs struct {
	Scheme       Scheme
	Averages     CategoryAverages
	Partials     LegacyPartials
	PartialCount int
}

// Final dispatches on the scheme tag.
func Final(in Inputs) float64 {
	switch in.Scheme {
	case SchemeLegacyPartials:
		return LegacyMean(in.Partials, in.PartialCount)
	default:
		return Weighted(in.Averages)
	}
}

// InRange reports whether v lies on the [0, 20] scale.
func InRange(v float64) bool {
	return v >= MinScore && v <= MaxScore
}
