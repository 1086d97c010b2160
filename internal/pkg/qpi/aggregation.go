// Package qpi implements the grade index math: units-weighted averages over
// curriculum subsets, required-average projections and weighted course
// components. Every function is pure and works on caller-owned snapshots.
package qpi

import (
	"github.com/yigit/qpidash/internal/app/models"
)

// Predicate selects subjects for an aggregation
type Predicate func(models.Subject) bool

// Completed reports whether a subject carries a usable grade.
// A stored 0 counts as ungraded, same as an absent grade.
func Completed(s models.Subject) bool {
	return s.Grade != nil && *s.Grade > 0
}

// InYear keeps subjects of a single year
func InYear(year string) Predicate {
	return func(s models.Subject) bool {
		return s.Year == year
	}
}

// InYearSemester keeps subjects of one semester within one year
func InYearSemester(year, semester string) Predicate {
	return func(s models.Subject) bool {
		return s.Year == year && s.Semester == semester
	}
}

// InYears keeps subjects whose year is in the given set
func InYears(years ...string) Predicate {
	set := make(map[string]struct{}, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return func(s models.Subject) bool {
		_, ok := set[s.Year]
		return ok
	}
}

// Filter returns the subjects that pass every predicate
func Filter(subjects []models.Subject, keep ...Predicate) []models.Subject {
	out := make([]models.Subject, 0, len(subjects))
next:
	for _, s := range subjects {
		for _, p := range keep {
			if !p(s) {
				continue next
			}
		}
		out = append(out, s)
	}
	return out
}

// Aggregate sums points and units over the subjects passing every predicate
func Aggregate(subjects []models.Subject, keep ...Predicate) models.Aggregate {
	var agg models.Aggregate
	for _, s := range Filter(subjects, keep...) {
		if Completed(s) {
			agg.CurrentPoints += s.Units * *s.Grade
			agg.GradedUnits += s.Units
		} else {
			agg.RemainingUnits += s.Units
		}
	}
	return agg
}

// WeightedAverage is sum(units*grade)/sum(units) over completed subjects,
// or 0 when nothing is completed yet.
func WeightedAverage(subjects []models.Subject) float64 {
	agg := Aggregate(subjects)
	return average(agg.CurrentPoints, agg.GradedUnits)
}

func average(points, units float64) float64 {
	if units == 0 {
		return 0
	}
	return points / units
}

// Summarize builds the dashboard figures over the whole curriculum
func Summarize(subjects []models.Subject) models.Dashboard {
	agg := Aggregate(subjects)
	total := agg.TotalUnits()

	d := models.Dashboard{
		CumulativeQPI:  average(agg.CurrentPoints, agg.GradedUnits),
		UnitsTaken:     agg.GradedUnits,
		UnitsRemaining: agg.RemainingUnits,
		TotalUnits:     total,
	}
	if total > 0 {
		d.CompletionPercent = agg.GradedUnits * 100 / total
	}
	d.ProgressPercent = int(d.CompletionPercent)
	return d
}

// BelowPassing reports a completed grade under the passing mark
func BelowPassing(s models.Subject) bool {
	return Completed(s) && *s.Grade < models.PassingGrade
}
