package qpi

import (
	"math"

	"github.com/yigit/qpidash/internal/app/models"
)

// usableScore returns the component's score when it is present and numeric
func usableScore(c models.Component) (float64, bool) {
	if c.Score == nil || math.IsNaN(*c.Score) || math.IsInf(*c.Score, 0) {
		return 0, false
	}
	return *c.Score, true
}

// Standing computes the weight-normalized standing of a component list.
// Components without a usable score are left out of both sums.
func Standing(components []models.Component) models.ComponentStanding {
	var st models.ComponentStanding
	for _, c := range components {
		score, ok := usableScore(c)
		if !ok {
			continue
		}
		st.CurrentWeightedPoints += score * c.Weight / models.FullWeight
		st.TotalWeightUsed += c.Weight
	}

	if st.TotalWeightUsed > 0 {
		st.CurrentGrade = st.CurrentWeightedPoints / (st.TotalWeightUsed / models.FullWeight)
	}
	// Over-allocation is reported, not clamped
	st.RemainingWeight = models.FullWeight - st.TotalWeightUsed
	st.OverAllocated = st.RemainingWeight < 0
	return st
}

// ProjectComponents computes the score needed on the remaining weight to
// finish the course at target. SECURED starts at the grade floor here,
// not at zero as in curriculum projections.
func ProjectComponents(components []models.Component, target float64) models.ComponentProjection {
	st := Standing(components)
	p := models.Projection{Target: target}

	if st.RemainingWeight > 0 {
		needed := target - st.CurrentWeightedPoints
		required := needed / (st.RemainingWeight / models.FullWeight)
		p.RequiredAverage = required
		switch {
		case required > models.MaxGrade:
			p.Status = models.StatusUnreachable
		case required <= models.MinGrade:
			p.Status = models.StatusSecured
		default:
			p.Status = models.StatusNeeds
		}
	} else {
		p.Status = models.StatusScopeComplete
		p.FinalIndex = st.CurrentWeightedPoints
		p.Reached = p.FinalIndex >= target
	}

	return models.ComponentProjection{ComponentStanding: st, Projection: p}
}
