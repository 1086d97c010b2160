package validation

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// Grading bounds
const (
	GradeMin  = 65.0
	GradeMax  = 100.0
	WeightMin = 0.0
	WeightMax = 100.0
)

// Tags registered on the validator
const (
	TagGrade  = "grade"
	TagTarget = "target"
	TagWeight = "weight"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidGrade accepts a grade in range, or 0 which clears the grade
func ValidGrade(v float64) bool {
	return v == 0 || ValidTarget(v)
}

// ValidTarget accepts a target index in range
func ValidTarget(v float64) bool {
	return finite(v) && v >= GradeMin && v <= GradeMax
}

// ValidWeight accepts a component weight in percent
func ValidWeight(v float64) bool {
	return finite(v) && v >= WeightMin && v <= WeightMax
}

func floatRule(check func(float64) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		switch f := fl.Field(); {
		case f.CanFloat():
			return check(f.Float())
		case f.CanInt():
			return check(float64(f.Int()))
		default:
			return false
		}
	}
}

// Register installs the grading tags on a validator instance
func Register(v *validator.Validate) error {
	rules := map[string]func(float64) bool{
		TagGrade:  ValidGrade,
		TagTarget: ValidTarget,
		TagWeight: ValidWeight,
	}
	for tag, check := range rules {
		if err := v.RegisterValidation(tag, floatRule(check)); err != nil {
			return err
		}
	}
	return nil
}
