// internal/model/models.go
package model

import "time"

// Repository is one ranked repository as persisted in the snapshot store.
type Repository struct {
	ID           int64
	Owner        string
	Name         string
	PositionCur  int
	PositionPrev *int
	Stars        int
	Watchers     int
	Forks        int
	OpenIssues   int
	Language     *string
	SnapshotDate time.Time
}

// FullName returns the "owner/name" form used by the upstream API and the
// read endpoints.
func (r Repository) FullName() string {
	return r.Owner + "/" + r.Name
}

// RepositorySummary is one entry of the ranking list as returned by the
// upstream provider. Rank is implied by position in the list.
type RepositorySummary struct {
	Owner      string
	Name       string
	Stars      int
	Watchers   int
	Forks      int
	OpenIssues int
	Language   *string
}

// CommitEvent is a single commit as reported by the upstream provider.
type CommitEvent struct {
	AuthorName string
	Date       time.Time
}

// DailyActivity is the per-calendar-day commit summary for one repository.
// Authors holds the distinct author names seen that day.
type DailyActivity struct {
	Date    time.Time
	Commits int
	Authors []string
}

// DayOf truncates a timestamp to its calendar date. The date components are
// taken in the timestamp's own location; no timezone normalization happens.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Yesterday returns the snapshot date for a collection run happening at now.
// Snapshots always represent the previous calendar day.
func Yesterday(now time.Time) time.Time {
	return DayOf(now.AddDate(0, 0, -1))
}
