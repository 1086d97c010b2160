package services

import (
	"context"

	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/app/repositories"
	"github.com/yigit/qpidash/internal/pkg/qpi"
)

// CurriculumService exposes the static curriculum
type CurriculumService interface {
	ListSubjects(ctx context.Context) []models.Subject
	Years(ctx context.Context) []string
	TotalUnits(ctx context.Context) float64
	Grouped(ctx context.Context) []models.YearStanding
}

type curriculumServiceImpl struct {
	curriculumRepo *repositories.CurriculumRepository
	mode           qpi.YearQPIMode
}

// NewCurriculumService creates a new curriculum service
func NewCurriculumService(curriculumRepo *repositories.CurriculumRepository, mode qpi.YearQPIMode) CurriculumService {
	return &curriculumServiceImpl{
		curriculumRepo: curriculumRepo,
		mode:           mode,
	}
}

// ListSubjects returns every subject in curriculum order, without grades
func (s *curriculumServiceImpl) ListSubjects(_ context.Context) []models.Subject {
	return s.curriculumRepo.All()
}

// Years returns the year labels in curriculum order
func (s *curriculumServiceImpl) Years(_ context.Context) []string {
	return qpi.Years(s.curriculumRepo.All())
}

// TotalUnits sums the units of the whole curriculum
func (s *curriculumServiceImpl) TotalUnits(_ context.Context) float64 {
	return qpi.Aggregate(s.curriculumRepo.All()).TotalUnits()
}

// Grouped returns the curriculum grouped by year and semester
func (s *curriculumServiceImpl) Grouped(_ context.Context) []models.YearStanding {
	return qpi.YearStandings(s.curriculumRepo.All(), s.mode)
}
