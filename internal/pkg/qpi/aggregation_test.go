package qpi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/qpidash/internal/app/models"
)

func TestWeightedAverage_NoCompletedUnits(t *testing.T) {
	cases := map[string][]models.Subject{
		"empty":      nil,
		"all absent": {subject(1, "1L", "1", 3, nil), subject(2, "1L", "1", 2, nil)},
		"all zero":   {subject(1, "1L", "1", 3, grade(0))},
		"mixed":      {subject(1, "1L", "1", 3, grade(0)), subject(2, "2L", "1", 4, nil)},
	}
	for name, subjects := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0.0, WeightedAverage(subjects))
		})
	}
}

func TestWeightedAverage(t *testing.T) {
	// (4*90 + 2*80 + 3*70) / 9
	assert.InDelta(t, 730.0/9.0, WeightedAverage(sampleCurriculum()), 1e-9)
}

func TestWeightedAverage_OrderInvariant(t *testing.T) {
	subjects := sampleCurriculum()
	want := WeightedAverage(subjects)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]models.Subject(nil), subjects...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.InDelta(t, want, WeightedAverage(shuffled), 1e-9)
	}
}

func TestZeroGradeMatchesAbsent(t *testing.T) {
	withZero := []models.Subject{subject(1, "1L", "1", 3, grade(80)), subject(2, "1L", "1", 3, grade(0))}
	withNil := []models.Subject{subject(1, "1L", "1", 3, grade(80)), subject(2, "1L", "1", 3, nil)}

	assert.Equal(t, WeightedAverage(withNil), WeightedAverage(withZero))
	assert.Equal(t, Aggregate(withNil), Aggregate(withZero))
	assert.Equal(t, Summarize(withNil), Summarize(withZero))
	assert.Equal(t, Required(withNil, 85), Required(withZero, 85))
	assert.False(t, Completed(withZero[1]))
	assert.False(t, BelowPassing(withZero[1]))
}

func TestAggregate_Predicates(t *testing.T) {
	subjects := sampleCurriculum()

	agg := Aggregate(subjects, InYear("1L"))
	assert.Equal(t, models.Aggregate{CurrentPoints: 520, GradedUnits: 6, RemainingUnits: 3}, agg)

	agg = Aggregate(subjects, InYearSemester("2L", "2nd Semester"))
	assert.Equal(t, models.Aggregate{RemainingUnits: 3}, agg)

	agg = Aggregate(subjects, InYears("1L", "2L"), Completed)
	assert.Equal(t, 9.0, agg.GradedUnits)
	assert.Equal(t, 0.0, agg.RemainingUnits)
}

func TestSummarize(t *testing.T) {
	d := Summarize(sampleCurriculum())

	assert.InDelta(t, 730.0/9.0, d.CumulativeQPI, 1e-9)
	assert.Equal(t, 9.0, d.UnitsTaken)
	assert.Equal(t, 6.0, d.UnitsRemaining)
	assert.Equal(t, 15.0, d.TotalUnits)
	assert.InDelta(t, 60.0, d.CompletionPercent, 1e-9)
	assert.Equal(t, 60, d.ProgressPercent)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, models.Dashboard{}, Summarize(nil))
}

func TestSummarize_ProgressTruncates(t *testing.T) {
	subjects := []models.Subject{
		subject(1, "1L", "1", 2, grade(80)),
		subject(2, "1L", "1", 1, nil),
	}
	d := Summarize(subjects)
	assert.Equal(t, 66, d.ProgressPercent)
}

func TestBelowPassing(t *testing.T) {
	assert.True(t, BelowPassing(subject(1, "1L", "1", 3, grade(74.5))))
	assert.False(t, BelowPassing(subject(1, "1L", "1", 3, grade(75))))
	assert.False(t, BelowPassing(subject(1, "1L", "1", 3, nil)))
}

func TestPureFunctionsDoNotMutate(t *testing.T) {
	subjects := sampleCurriculum()
	before := append([]models.Subject(nil), subjects...)

	first := Summarize(subjects)
	second := Summarize(subjects)

	assert.Equal(t, first, second)
	assert.Equal(t, before, subjects)
}
