package qpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/qpidash/internal/app/models"
)

func TestParseYearQPIMode(t *testing.T) {
	tests := []struct {
		in      string
		want    YearQPIMode
		wantErr bool
	}{
		{in: "", want: YearQPIThroughYear},
		{in: "through_year", want: YearQPIThroughYear},
		{in: " Overall ", want: YearQPIOverall},
		{in: "per_semester", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearQPIMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestYearsAndSemestersKeepCurriculumOrder(t *testing.T) {
	subjects := []models.Subject{
		subject(1, "2L", "B", 1, nil),
		subject(2, "1L", "A", 1, nil),
		subject(3, "2L", "A", 1, nil),
		subject(4, "2L", "B", 1, nil),
	}
	assert.Equal(t, []string{"2L", "1L"}, Years(subjects))
	assert.Equal(t, []string{"B", "A"}, Semesters(subjects, "2L"))
}

func TestYearStandings_ThroughYear(t *testing.T) {
	standings := YearStandings(sampleCurriculum(), YearQPIThroughYear)
	require.Len(t, standings, 2)

	assert.Equal(t, "1L", standings[0].Year)
	assert.InDelta(t, 520.0/6.0, standings[0].QPI, 1e-9)
	require.Len(t, standings[0].Semesters, 2)
	assert.Equal(t, "1st Semester", standings[0].Semesters[0].Semester)
	assert.Len(t, standings[0].Semesters[0].Subjects, 2)

	assert.Equal(t, "2L", standings[1].Year)
	assert.InDelta(t, 730.0/9.0, standings[1].QPI, 1e-9)
	assert.True(t, standings[1].Semesters[0].Subjects[0].BelowPassing)
}

func TestYearStandings_Overall(t *testing.T) {
	subjects := sampleCurriculum()
	overall := WeightedAverage(subjects)

	for _, st := range YearStandings(subjects, YearQPIOverall) {
		assert.Equal(t, overall, st.QPI, "year %s", st.Year)
	}
}
