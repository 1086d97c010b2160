package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/curriculum"
)

// SubjectStore is the part of the curriculum table the seeder needs
type SubjectStore interface {
	Count(ctx context.Context) (int64, error)
	InsertAll(ctx context.Context, subjects []models.Subject) error
}

// SeedCurriculum fills an empty subjects table from the CSV file.
// A table that already has rows is left untouched.
func SeedCurriculum(ctx context.Context, store SubjectStore, csvPath string, lgr zerolog.Logger) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("error counting subjects: %w", err)
	}
	if count > 0 {
		lgr.Info().Int64("subjects", count).Msg("Curriculum table already populated, skipping seed")
		return nil
	}

	subjects, err := curriculum.LoadFile(csvPath)
	if err != nil {
		return fmt.Errorf("error reading seed curriculum: %w", err)
	}

	if err := store.InsertAll(ctx, subjects); err != nil {
		// Another instance seeded first
		if errors.Is(err, apperrors.ErrConflict) {
			lgr.Warn().Msg("Curriculum was seeded concurrently, keeping existing rows")
			return nil
		}
		return fmt.Errorf("error seeding curriculum: %w", err)
	}

	lgr.Info().Int("subjects", len(subjects)).Str("source", csvPath).Msg("Curriculum table seeded")
	return nil
}
