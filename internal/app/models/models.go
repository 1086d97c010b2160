package models

// Grade bounds on the 65-100 scale
const (
	MinGrade     = 65.0
	MaxGrade     = 100.0
	PassingGrade = 75.0
	FullWeight   = 100.0
)

// Scope selects the subjects a projection runs over: one year label or all years.
type Scope string

// ScopeTotal covers the whole curriculum
const ScopeTotal Scope = "TOTAL"

// IsTotal reports whether the scope spans every year
func (s Scope) IsTotal() bool {
	return s == ScopeTotal
}

// ProjectionStatus is the outcome class of a required-average projection
type ProjectionStatus string

const (
	StatusUnreachable   ProjectionStatus = "UNREACHABLE"
	StatusSecured       ProjectionStatus = "SECURED"
	StatusNeeds         ProjectionStatus = "NEEDS"
	StatusScopeComplete ProjectionStatus = "SCOPE_COMPLETE"
)
