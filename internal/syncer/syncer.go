// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github-top-tracker/internal/activity"
	"github-top-tracker/internal/metrics"
	"github-top-tracker/internal/model"
	"github-top-tracker/internal/store"
)

// Provider supplies the ranking list and raw commit events.
type Provider interface {
	TopRepositories(ctx context.Context, limit int) ([]model.RepositorySummary, error)
	Commits(ctx context.Context, owner, name string, since time.Time) ([]model.CommitEvent, error)
}

// Report summarizes one synchronization run.
type Report struct {
	Total        int
	Inserted     int
	Updated      int
	Failed       int
	ActivityDays int
}

// Syncer reconciles the current ranking against stored state: it decides
// insert-vs-update per repository, computes where to resume activity
// collection, and drives the fetch-aggregate-persist sequence.
type Syncer struct {
	store    store.Store
	provider Provider
	logger   *slog.Logger
	limit    int
	interval time.Duration
	now      func() time.Time
}

// New creates a new Syncer instance.
func New(st store.Store, provider Provider, logger *slog.Logger, limit int, interval time.Duration) *Syncer {
	return &Syncer{
		store:    st,
		provider: provider,
		logger:   logger,
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs a collection immediately and then on every interval tick until
// the context is cancelled. The interval stands in for the external daily
// scheduler; snapshots always represent the previous calendar day.
func (s *Syncer) Start(ctx context.Context) {
	s.logger.Info("Starting syncer", "interval", s.interval.String(), "limit", s.limit)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runOnce(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	report, err := s.Synchronize(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.logger.Error("Synchronization run failed", "error", err)
		}
		return
	}
	s.logger.Info("Synchronization run finished",
		"total", report.Total,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"failed", report.Failed,
		"activity_days", report.ActivityDays,
	)
}

// Synchronize performs one collection run. A ranking fetch failure aborts the
// run; failures scoped to a single repository are logged, counted in the
// report, and do not stop the remaining repositories. Repositories are
// processed strictly one at a time to stay inside upstream rate limits.
func (s *Syncer) Synchronize(ctx context.Context) (Report, error) {
	var report Report

	summaries, err := s.provider.TopRepositories(ctx, s.limit)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return report, err
	}

	snapshotDate := model.Yesterday(s.now())
	report.Total = len(summaries)

	for i, summary := range summaries {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		outcome, err := s.syncRepository(ctx, summary, i+1, snapshotDate)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return report, err
			}
			report.Failed++
			metrics.RepoSyncFailures.Inc()
			s.logger.Error("Failed to sync repository", "owner", summary.Owner, "repo", summary.Name, "error", err)
			continue
		}

		if outcome.inserted {
			report.Inserted++
		} else {
			report.Updated++
		}
		report.ActivityDays += outcome.activityDays
	}

	metrics.SyncRuns.WithLabelValues("ok").Inc()
	return report, nil
}

type repoOutcome struct {
	inserted     bool
	activityDays int
}

// syncRepository handles the full reconciliation of a single repository:
// insert-or-update of the snapshot record, resume-point computation, commit
// fetch, aggregation, and activity persistence.
func (s *Syncer) syncRepository(ctx context.Context, summary model.RepositorySummary, position int, snapshotDate time.Time) (repoOutcome, error) {
	logger := s.logger.With("owner", summary.Owner, "repo", summary.Name, "position", position)

	var outcome repoOutcome

	existing, err := s.store.FindRepository(ctx, summary.Owner, summary.Name)
	if err != nil {
		return outcome, err
	}

	record := newRecord(summary, position, snapshotDate)

	var repoID int64
	if existing == nil {
		logger.Info("Repository not seen before, inserting")
		repoID, err = s.store.InsertRepository(ctx, record)
		if err != nil {
			return outcome, err
		}
		outcome.inserted = true
	} else {
		repoID = existing.ID
		if err := s.store.UpdateRepository(ctx, repoID, record); err != nil {
			return outcome, err
		}
	}

	since, err := s.resumePoint(ctx, repoID)
	if err != nil {
		return outcome, err
	}

	commits, err := s.provider.Commits(ctx, summary.Owner, summary.Name, since)
	if err != nil {
		return outcome, err
	}

	days := activity.Aggregate(commits)
	if len(days) == 0 {
		logger.Info("No new commits found")
		return outcome, nil
	}

	for _, day := range days {
		if err := s.store.InsertActivity(ctx, repoID, day); err != nil {
			return outcome, err
		}
		outcome.activityDays++
		metrics.ActivityDaysStored.Inc()
	}
	logger.Info("Stored daily activity", "days", len(days), "commits", len(commits))

	return outcome, nil
}

// resumePoint returns the first instant from which commits still need to be
// fetched: the day after the latest stored activity date. A zero time means
// no activity is stored yet and the full history should be fetched.
func (s *Syncer) resumePoint(ctx context.Context, repoID int64) (time.Time, error) {
	latest, ok, err := s.store.MaxActivityDate(ctx, repoID)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, nil
	}
	return model.DayOf(latest).AddDate(0, 0, 1), nil
}

func newRecord(summary model.RepositorySummary, position int, snapshotDate time.Time) model.Repository {
	return model.Repository{
		Owner:        summary.Owner,
		Name:         summary.Name,
		PositionCur:  position,
		Stars:        summary.Stars,
		Watchers:     summary.Watchers,
		Forks:        summary.Forks,
		OpenIssues:   summary.OpenIssues,
		Language:     summary.Language,
		SnapshotDate: snapshotDate,
	}
}
