package repositories

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/curriculum"
)

// CurriculumLoader reads the static subject list from its source
type CurriculumLoader interface {
	Load(ctx context.Context) ([]models.Subject, error)
}

// CSVCurriculumLoader reads subjects from a CSV file
type CSVCurriculumLoader struct {
	path string
}

// NewCSVCurriculumLoader creates a loader for the given file
func NewCSVCurriculumLoader(path string) *CSVCurriculumLoader {
	return &CSVCurriculumLoader{path: path}
}

// Load reads and parses the file
func (l *CSVCurriculumLoader) Load(_ context.Context) ([]models.Subject, error) {
	return curriculum.LoadFile(l.path)
}

// StaticCurriculumLoader serves an in-memory subject list
type StaticCurriculumLoader []models.Subject

// Load returns the list as-is
func (l StaticCurriculumLoader) Load(_ context.Context) ([]models.Subject, error) {
	return []models.Subject(l), nil
}

// CurriculumRepository holds the immutable curriculum loaded at startup
type CurriculumRepository struct {
	subjects []models.Subject
	byID     map[int64]int
}

// NewCurriculumRepository loads the curriculum once and validates it
func NewCurriculumRepository(ctx context.Context, loader CurriculumLoader) (*CurriculumRepository, error) {
	subjects, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading curriculum: %w", err)
	}
	if len(subjects) == 0 {
		return nil, apperrors.ErrCurriculumEmpty
	}

	repo := &CurriculumRepository{
		subjects: make([]models.Subject, len(subjects)),
		byID:     make(map[int64]int, len(subjects)),
	}
	for i, s := range subjects {
		if s.Units <= 0 {
			return nil, fmt.Errorf("%w: subject %d has non-positive units", apperrors.ErrCurriculumInvalid, s.ID)
		}
		if _, dup := repo.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate subject id %d", apperrors.ErrCurriculumInvalid, s.ID)
		}
		// Grades never come from the source
		s.Grade = nil
		repo.subjects[i] = s
		repo.byID[s.ID] = i
	}

	return repo, nil
}

// All returns a copy of the curriculum in source order
func (r *CurriculumRepository) All() []models.Subject {
	out := make([]models.Subject, len(r.subjects))
	copy(out, r.subjects)
	return out
}

// GetByID returns a single subject
func (r *CurriculumRepository) GetByID(id int64) (models.Subject, error) {
	i, ok := r.byID[id]
	if !ok {
		return models.Subject{}, apperrors.ErrSubjectNotFound
	}
	return r.subjects[i], nil
}

// Exists reports whether a subject ID is part of the curriculum
func (r *CurriculumRepository) Exists(id int64) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns every subject ID in ascending order
func (r *CurriculumRepository) IDs() []int64 {
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
