package qpi

import (
	"github.com/yigit/qpidash/internal/app/models"
)

// ScopeSubjects narrows a curriculum to a projection scope
func ScopeSubjects(subjects []models.Subject, scope models.Scope) []models.Subject {
	if scope.IsTotal() {
		return subjects
	}
	return Filter(subjects, InYear(string(scope)))
}

// Required computes the average still needed on the ungraded units of a
// scope to finish at target.
func Required(scopeSubjects []models.Subject, target float64) models.Projection {
	return RequiredFrom(Aggregate(scopeSubjects), target)
}

// RequiredFrom runs the projection on precomputed sums
func RequiredFrom(agg models.Aggregate, target float64) models.Projection {
	p := models.Projection{Target: target}

	if agg.RemainingUnits > 0 {
		required := (target*agg.TotalUnits() - agg.CurrentPoints) / agg.RemainingUnits
		p.RequiredAverage = required
		switch {
		case required > models.MaxGrade:
			p.Status = models.StatusUnreachable
		case required <= 0:
			p.Status = models.StatusSecured
		default:
			p.Status = models.StatusNeeds
		}
		return p
	}

	p.Status = models.StatusScopeComplete
	p.FinalIndex = average(agg.CurrentPoints, agg.GradedUnits)
	p.Reached = p.FinalIndex >= target
	return p
}

// ProjectScope aggregates and projects a single scope
func ProjectScope(subjects []models.Subject, scope models.Scope, target float64) models.ScopeProjection {
	agg := Aggregate(ScopeSubjects(subjects, scope))
	return models.ScopeProjection{
		Scope:      scope,
		Aggregate:  agg,
		Projection: RequiredFrom(agg, target),
	}
}
