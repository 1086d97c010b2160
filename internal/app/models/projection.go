package models

// Aggregate holds the weighted sums of a subject set
type Aggregate struct {
	CurrentPoints  float64 `json:"currentPoints"`
	GradedUnits    float64 `json:"gradedUnits"`
	RemainingUnits float64 `json:"remainingUnits"`
}

// TotalUnits is graded plus remaining units
func (a Aggregate) TotalUnits() float64 {
	return a.GradedUnits + a.RemainingUnits
}

// Projection is the result of a required-average computation.
// RequiredAverage is meaningful for NEEDS (and carries the raw figure for
// UNREACHABLE and SECURED); FinalIndex and Reached for SCOPE_COMPLETE.
type Projection struct {
	Status          ProjectionStatus `json:"status" example:"NEEDS"`
	Target          float64          `json:"target" example:"85"`
	RequiredAverage float64          `json:"requiredAverage" example:"90"`
	FinalIndex      float64          `json:"finalIndex"`
	Reached         bool             `json:"reached"`
}

// ScopeProjection is a curriculum projection together with its inputs
type ScopeProjection struct {
	Scope Scope `json:"scope"`
	Aggregate
	Projection
}

// ComponentStanding is the weight-normalized standing of a component list
type ComponentStanding struct {
	CurrentWeightedPoints float64 `json:"currentWeightedPoints"`
	TotalWeightUsed       float64 `json:"totalWeightUsed"`
	CurrentGrade          float64 `json:"currentGrade"`
	RemainingWeight       float64 `json:"remainingWeight"`
	OverAllocated         bool    `json:"overAllocated"`
}

// ComponentProjection couples a component standing with its projection
type ComponentProjection struct {
	ComponentStanding
	Projection
}

// Dashboard is the summary panel over the whole curriculum
type Dashboard struct {
	CumulativeQPI     float64 `json:"cumulativeQpi"`
	UnitsTaken        float64 `json:"unitsTaken"`
	UnitsRemaining    float64 `json:"unitsRemaining"`
	TotalUnits        float64 `json:"totalUnits"`
	CompletionPercent float64 `json:"completionPercent"`
	ProgressPercent   int     `json:"progressPercent"`
}

// SubjectView is a subject as displayed inside a year/semester group
type SubjectView struct {
	Subject
	BelowPassing bool `json:"belowPassing"`
}

// SemesterGroup lists a semester's subjects in curriculum order
type SemesterGroup struct {
	Semester string        `json:"semester"`
	Subjects []SubjectView `json:"subjects"`
}

// YearStanding is one year's group and its running QPI
type YearStanding struct {
	Year      string          `json:"year"`
	QPI       float64         `json:"qpi"`
	Semesters []SemesterGroup `json:"semesters"`
}

// SessionDashboard is everything the dashboard view shows for one session
type SessionDashboard struct {
	Summary Dashboard       `json:"summary"`
	Years   []YearStanding  `json:"years"`
	Target  float64         `json:"target"`
	Total   ScopeProjection `json:"total"`
}
