package repositories

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/qpidash/internal/app/models"
	"github.com/yigit/qpidash/internal/pkg/apperrors"
)

func TestSessionRepository_Isolation(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	a := repo.Create(models.DefaultComponents(), 75)
	b := repo.Create(models.DefaultComponents(), 75)

	_, err := repo.Update(a.ID, func(s *models.Session) error {
		s.Grades[1] = 90
		score := 88.0
		s.Components[0].Score = &score
		return nil
	})
	require.NoError(t, err)

	gotB, err := repo.Get(b.ID)
	require.NoError(t, err)
	assert.Empty(t, gotB.Grades)
	assert.Nil(t, gotB.Components[0].Score)

	gotA, err := repo.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, gotA.Grades[1])

	// mutating a returned copy does not touch the store
	gotA.Grades[1] = 65
	again, err := repo.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 90.0, again.Grades[1])
}

func TestSessionRepository_UpdateRollsBackOnError(t *testing.T) {
	repo := NewSessionRepository(0)
	s := repo.Create(nil, 75)

	_, err := repo.Update(s.ID, func(s *models.Session) error {
		s.Grades[7] = 80
		return errors.New("reject")
	})
	require.Error(t, err)

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.NotContains(t, got.Grades, int64(7))
}

func TestSessionRepository_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	repo := NewSessionRepository(time.Hour)
	repo.SetClock(func() time.Time { return now })

	s := repo.Create(nil, 75)
	stale := repo.Create(nil, 75)

	now = now.Add(45 * time.Minute)
	_, err := repo.Get(s.ID)
	require.NoError(t, err)

	now = now.Add(30 * time.Minute)
	_, err = repo.Get(stale.ID)
	assert.ErrorIs(t, err, apperrors.ErrSessionExpired)

	_, err = repo.Get(s.ID)
	assert.NoError(t, err)

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, repo.Purge())
	assert.Zero(t, repo.Count())
}

func TestSessionRepository_Delete(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	s := repo.Create(nil, 75)

	require.NoError(t, repo.Delete(s.ID))
	assert.ErrorIs(t, repo.Delete(s.ID), apperrors.ErrSessionNotFound)
	_, err := repo.Get(uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestSessionRepository_ConcurrentUpdates(t *testing.T) {
	repo := NewSessionRepository(time.Hour)
	s := repo.Create(nil, 75)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := repo.Update(s.ID, func(s *models.Session) error {
				s.Grades[id] = 80
				return nil
			})
			assert.NoError(t, err)
		}(int64(i))
	}
	wg.Wait()

	got, err := repo.Get(s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Grades, 50)
}
