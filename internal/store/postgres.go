// internal/store/postgres.go
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github-top-tracker/internal/apperrors"
	"github-top-tracker/internal/model"
)

// Postgres implements Store on top of a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const repoColumns = `id, owner, name, position_cur, position_prev, stars, watchers, forks, open_issues, language, snapshot_date`

func (p *Postgres) FindRepository(ctx context.Context, owner, name string) (*model.Repository, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+repoColumns+` FROM top_repos WHERE owner = $1 AND name = $2`,
		owner, name,
	)
	repo, err := scanRepository(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &apperrors.StorageError{Op: "find repository", Err: err}
	}
	return &repo, nil
}

func (p *Postgres) InsertRepository(ctx context.Context, repo model.Repository) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO top_repos (owner, name, position_cur, stars, watchers, forks, open_issues, language, snapshot_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		repo.Owner, repo.Name, repo.PositionCur, repo.Stars, repo.Watchers,
		repo.Forks, repo.OpenIssues, repo.Language, repo.SnapshotDate,
	).Scan(&id)
	if err != nil {
		return 0, &apperrors.StorageError{Op: "insert repository", Err: err}
	}
	return id, nil
}

// UpdateRepository shifts position_prev and overwrites position_cur in a
// single statement, so the read-compare-shift-write sequence is atomic.
// position_prev only moves when the rank actually changed.
func (p *Postgres) UpdateRepository(ctx context.Context, id int64, repo model.Repository) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE top_repos
		 SET position_prev = CASE WHEN position_cur IS DISTINCT FROM $2 THEN position_cur ELSE position_prev END,
		     position_cur = $2,
		     stars = $3,
		     watchers = $4,
		     forks = $5,
		     open_issues = $6,
		     language = $7,
		     snapshot_date = $8
		 WHERE id = $1`,
		id, repo.PositionCur, repo.Stars, repo.Watchers, repo.Forks,
		repo.OpenIssues, repo.Language, repo.SnapshotDate,
	)
	if err != nil {
		return &apperrors.StorageError{Op: "update repository", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &apperrors.StorageError{Op: "update repository", Err: pgx.ErrNoRows}
	}
	return nil
}

func (p *Postgres) MaxActivityDate(ctx context.Context, repoID int64) (time.Time, bool, error) {
	var latest *time.Time
	err := p.pool.QueryRow(ctx,
		`SELECT MAX(date) FROM repo_activity WHERE repo_id = $1`,
		repoID,
	).Scan(&latest)
	if err != nil {
		return time.Time{}, false, &apperrors.StorageError{Op: "max activity date", Err: err}
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

func (p *Postgres) InsertActivity(ctx context.Context, repoID int64, day model.DailyActivity) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO repo_activity (repo_id, date, commits, authors)
		 VALUES ($1, $2, $3, $4)`,
		repoID, day.Date, day.Commits, day.Authors,
	)
	if err != nil {
		return &apperrors.StorageError{Op: "insert activity", Err: err}
	}
	return nil
}

func (p *Postgres) ListTop(ctx context.Context, snapshotDate time.Time) ([]model.Repository, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+repoColumns+` FROM top_repos WHERE snapshot_date = $1 ORDER BY position_cur`,
		snapshotDate,
	)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "list top", Err: err}
	}
	defer rows.Close()

	repos := make([]model.Repository, 0)
	for rows.Next() {
		repo, err := scanRepository(rows)
		if err != nil {
			return nil, &apperrors.StorageError{Op: "list top", Err: err}
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "list top", Err: err}
	}
	return repos, nil
}

func (p *Postgres) ActivityBetween(ctx context.Context, repoID int64, since, until time.Time) ([]model.DailyActivity, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT date, commits, authors FROM repo_activity
		 WHERE repo_id = $1 AND date BETWEEN $2 AND $3
		 ORDER BY date`,
		repoID, since, until,
	)
	if err != nil {
		return nil, &apperrors.StorageError{Op: "activity between", Err: err}
	}
	defer rows.Close()

	days := make([]model.DailyActivity, 0)
	for rows.Next() {
		var day model.DailyActivity
		if err := rows.Scan(&day.Date, &day.Commits, &day.Authors); err != nil {
			return nil, &apperrors.StorageError{Op: "activity between", Err: err}
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.StorageError{Op: "activity between", Err: err}
	}
	return days, nil
}

func scanRepository(row pgx.Row) (model.Repository, error) {
	var repo model.Repository
	err := row.Scan(
		&repo.ID, &repo.Owner, &repo.Name, &repo.PositionCur, &repo.PositionPrev,
		&repo.Stars, &repo.Watchers, &repo.Forks, &repo.OpenIssues,
		&repo.Language, &repo.SnapshotDate,
	)
	return repo, err
}
