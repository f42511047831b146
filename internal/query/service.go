// internal/query/service.go
package query

import (
	"context"
	"time"

	"github-top-tracker/internal/apperrors"
	"github-top-tracker/internal/model"
	"github-top-tracker/internal/store"
)

// Service answers read queries against the snapshot store. It never writes.
type Service struct {
	store store.Store
	now   func() time.Time
}

func NewService(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// Top100 returns yesterday's snapshot ordered by current rank. An empty slice
// means no snapshot has been collected for that date yet; that is not an
// error.
func (s *Service) Top100(ctx context.Context) ([]model.Repository, error) {
	return s.store.ListTop(ctx, model.Yesterday(s.now()))
}

// Activity returns the repository's daily aggregates within the inclusive
// date range. Unknown repositories yield apperrors.ErrNotFound; a known
// repository with no activity in range yields an empty slice.
func (s *Service) Activity(ctx context.Context, owner, name string, since, until time.Time) ([]model.DailyActivity, error) {
	repo, err := s.store.FindRepository(ctx, owner, name)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, apperrors.ErrNotFound
	}
	return s.store.ActivityBetween(ctx, repo.ID, since, until)
}
