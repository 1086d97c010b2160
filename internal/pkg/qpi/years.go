package qpi

import (
	"fmt"
	"strings"

	"github.com/yigit/qpidash/internal/app/models"
)

// YearQPIMode decides what the running per-year QPI covers
type YearQPIMode string

const (
	// YearQPIThroughYear covers the year itself and every year listed before it
	YearQPIThroughYear YearQPIMode = "through_year"
	// YearQPIOverall repeats the whole-curriculum cumulative QPI on every year
	YearQPIOverall YearQPIMode = "overall"
)

// ParseYearQPIMode maps a config string to a mode
func ParseYearQPIMode(s string) (YearQPIMode, error) {
	switch YearQPIMode(strings.ToLower(strings.TrimSpace(s))) {
	case YearQPIThroughYear, "":
		return YearQPIThroughYear, nil
	case YearQPIOverall:
		return YearQPIOverall, nil
	default:
		return "", fmt.Errorf("unknown year QPI mode %q", s)
	}
}

// Years lists year labels in order of first appearance
func Years(subjects []models.Subject) []string {
	seen := make(map[string]bool)
	var years []string
	for _, s := range subjects {
		if !seen[s.Year] {
			seen[s.Year] = true
			years = append(years, s.Year)
		}
	}
	return years
}

// Semesters lists a year's semester labels in order of first appearance
func Semesters(subjects []models.Subject, year string) []string {
	seen := make(map[string]bool)
	var sems []string
	for _, s := range subjects {
		if s.Year == year && !seen[s.Semester] {
			seen[s.Semester] = true
			sems = append(sems, s.Semester)
		}
	}
	return sems
}

// YearStandings groups subjects by year and semester and attaches each
// year's running QPI according to mode.
func YearStandings(subjects []models.Subject, mode YearQPIMode) []models.YearStanding {
	years := Years(subjects)
	overall := WeightedAverage(subjects)

	standings := make([]models.YearStanding, 0, len(years))
	for i, year := range years {
		st := models.YearStanding{Year: year}

		for _, sem := range Semesters(subjects, year) {
			group := models.SemesterGroup{Semester: sem}
			for _, s := range Filter(subjects, InYearSemester(year, sem)) {
				group.Subjects = append(group.Subjects, models.SubjectView{
					Subject:      s,
					BelowPassing: BelowPassing(s),
				})
			}
			st.Semesters = append(st.Semesters, group)
		}

		if mode == YearQPIOverall {
			st.QPI = overall
		} else {
			st.QPI = WeightedAverage(Filter(subjects, InYears(years[:i+1]...)))
		}
		standings = append(standings, st)
	}
	return standings
}
