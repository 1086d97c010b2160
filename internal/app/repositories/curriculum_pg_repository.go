package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/db"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
	"github.com/yigit/qpidash/internal/pkg/dberrors"
	"github.com/yigit/qpidash/internal/pkg/logger"
)

const (
	subjectsTable = "subjects"
	// subjectsUniqueConstraint guards against seeding the same row twice
	subjectsUniqueConstraint = "subjects_year_semester_name_key"
)

// PostgresCurriculumLoader reads the curriculum from the subjects table
type PostgresCurriculumLoader struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewPostgresCurriculumLoader creates a loader on the given database
func NewPostgresCurriculumLoader(database *db.PostgresDB) *PostgresCurriculumLoader {
	return &PostgresCurriculumLoader{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Load reads every subject ordered by its row position
func (r *PostgresCurriculumLoader) Load(ctx context.Context) ([]models.Subject, error) {
	sql, args, err := r.sb.Select("id", "year", "semester", "name", "units").
		From(subjectsTable).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building load curriculum SQL")
		return nil, fmt.Errorf("failed to build load curriculum query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUndefinedTable(err) {
			return nil, fmt.Errorf("%w: subjects table missing, run migrations", apperrors.ErrCurriculumInvalid)
		}
		logger.Error().Err(err).Msg("Error executing load curriculum query")
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Year, &s.Semester, &s.Name, &s.Units); err != nil {
			logger.Error().Err(err).Msg("Error scanning subject row")
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating subject rows")
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}

	return subjects, nil
}

// Count returns the number of stored subjects
func (r *PostgresCurriculumLoader) Count(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From(subjectsTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count subjects query: %w", err)
	}

	var n int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting subjects: %w", err)
	}
	return n, nil
}

// InsertAll stores a curriculum in one transaction, keeping the given
// order in the position column.
func (r *PostgresCurriculumLoader) InsertAll(ctx context.Context, subjects []models.Subject) error {
	if len(subjects) == 0 {
		return nil
	}

	insert := r.sb.Insert(subjectsTable).Columns("year", "semester", "name", "units", "position")
	for i, s := range subjects {
		insert = insert.Values(s.Year, s.Semester, s.Name, s.Units, i+1)
	}
	sql, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert subjects query: %w", err)
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			if dberrors.IsDuplicateConstraintError(err, subjectsUniqueConstraint) {
				return fmt.Errorf("%w: curriculum already stored", apperrors.ErrConflict)
			}
			logger.Error().Err(err).Int("subjects", len(subjects)).Msg("Error inserting curriculum")
			return fmt.Errorf("error inserting subjects: %w", err)
		}
		return nil
	})
}
