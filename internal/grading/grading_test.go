package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestAverage_IgnoresUnsetSlots(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 0.0, Average([]float64{}))
	assert.Equal(t, 0.0, Average([]float64{0, 0, 0}))
	assert.InDelta(t, 15.0, Average([]float64{0, 10, 0, 20}), tolerance)
	assert.InDelta(t, 12.5, Average([]float64{12.5}), tolerance)
}

func TestCategoryAverages_Scenario(t *testing.T) {
	activities := ActivityItems{18.5, 17, 19.5, 16.5, 18, 17.5, 19, 18.5}
	practices := PracticeItems{16.5, 18, 17.5, 19}
	exams := PartialExamItems{17.5, 18.5}

	avg := CategoryAverages{
		Activity:    activities.Average(),
		Practice:    practices.Average(),
		PartialExam: exams.Average(),
	}
	assert.InDelta(t, 18.0625, avg.Activity, tolerance)
	assert.InDelta(t, 17.75, avg.Practice, tolerance)
	assert.InDelta(t, 18.0, avg.PartialExam, tolerance)

	assert.InDelta(t, 17.93125, Weighted(avg), tolerance)
	assert.InDelta(t, 17.93125, Final(Inputs{Scheme: SchemeCategory, Averages: avg}), tolerance)
}

func TestWeighted_FormulaHoldsAcrossScale(t *testing.T) {
	for a := 0.0; a <= MaxScore; a += 2.5 {
		for p := 0.0; p <= MaxScore; p += 5 {
			for e := 0.0; e <= MaxScore; e += 4 {
				got := Weighted(CategoryAverages{Activity: a, Practice: p, PartialExam: e})
				want := 0.10*a + 0.30*p + 0.60*e
				require.InDeltaf(t, want, got, tolerance, "a=%v p=%v e=%v", a, p, e)
			}
		}
	}
}

func TestWeighted_MissingCategoryIsNotRenormalised(t *testing.T) {
	got := Weighted(CategoryAverages{Activity: 20, Practice: 20})
	assert.InDelta(t, 8.0, got, tolerance)
}

func TestAllZero_FinalIsZero(t *testing.T) {
	var (
		activities ActivityItems
		practices  PracticeItems
		exams      PartialExamItems
	)
	avg := CategoryAverages{activities.Average(), practices.Average(), exams.Average()}
	assert.Equal(t, CategoryAverages{}, avg)
	assert.Equal(t, 0.0, Final(Inputs{Scheme: SchemeCategory, Averages: avg}))
}

func TestLegacyMean(t *testing.T) {
	p := LegacyPartials{14, 0, 16, 20}

	assert.InDelta(t, 15.0, LegacyMean(p, 3), tolerance, "fourth slot outside partial_count")
	assert.InDelta(t, 50.0/3, LegacyMean(p, 4), tolerance)
	assert.InDelta(t, 14.0, LegacyMean(p, 0), tolerance, "count clamps to 1")
	assert.InDelta(t, 50.0/3, LegacyMean(p, 9), tolerance, "count clamps to 4")
	assert.Equal(t, 0.0, LegacyMean(LegacyPartials{}, 4))

	in := Inputs{Scheme: SchemeLegacyPartials, Partials: p, PartialCount: 3,
		Averages: CategoryAverages{Activity: 20, Practice: 20, PartialExam: 20}}
	assert.InDelta(t, 15.0, Final(in), tolerance, "legacy dispatch ignores category averages")
}

func TestLegacyPartials_Used(t *testing.T) {
	p := LegacyPartials{14, 0, 16, 20}

	assert.Equal(t, LegacyPartials{14, 0, 16, 0}, p.Used(3))
	assert.Equal(t, p, p.Used(4))
	assert.Equal(t, LegacyPartials{14, 0, 0, 0}, p.Used(0))
	assert.Equal(t, LegacyPartials{14, 0, 16, 20}, p, "receiver is not modified")
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeCategory, s)

	s, err = ParseScheme("legacy_partials")
	require.NoError(t, err)
	assert.Equal(t, SchemeLegacyPartials, s)

	_, err = ParseScheme("weighted")
	assert.Error(t, err)
}

func TestInRange(t *testing.T) {
	assert.True(t, InRange(0))
	assert.True(t, InRange(20))
	assert.False(t, InRange(-0.5))
	assert.False(t, InRange(20.01))
}
