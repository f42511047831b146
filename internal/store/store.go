// internal/store/store.go
package store

import (
	"context"
	"time"

	"github-top-tracker/internal/model"
)

// Store is the persistence contract consumed by the reconciliation engine and
// the read query service. Implementations report failures as
// *apperrors.StorageError.
type Store interface {
	// FindRepository returns the stored record for (owner, name), or nil when
	// the repository is unknown. Not-found is not an error.
	FindRepository(ctx context.Context, owner, name string) (*model.Repository, error)

	// InsertRepository creates a new record with a null previous position and
	// returns the assigned id.
	InsertRepository(ctx context.Context, repo model.Repository) (int64, error)

	// UpdateRepository applies new field values to an existing record. When
	// the new current position differs from the stored one, the old position
	// is shifted into the previous-position column as part of the same write.
	UpdateRepository(ctx context.Context, id int64, repo model.Repository) error

	// MaxActivityDate returns the latest stored activity date for the
	// repository. The boolean is false when no activity is stored yet.
	MaxActivityDate(ctx context.Context, repoID int64) (time.Time, bool, error)

	// InsertActivity creates a new daily activity record. The caller
	// guarantees no record exists yet for that (repository, date).
	InsertActivity(ctx context.Context, repoID int64, day model.DailyActivity) error

	// ListTop returns all repository records carrying the given snapshot
	// date, ordered by current position ascending.
	ListTop(ctx context.Context, snapshotDate time.Time) ([]model.Repository, error)

	// ActivityBetween returns the repository's activity records within the
	// inclusive date range, ordered by date ascending.
	ActivityBetween(ctx context.Context, repoID int64, since, until time.Time) ([]model.DailyActivity, error)
}
