// internal/activity/aggregate.go
package activity

import (
	"sort"
	"time"

	"github-top-tracker/internal/model"
)

// Aggregate buckets raw commit events by calendar date and produces one
// DailyActivity per non-empty day: the commit count plus the distinct set of
// author names. Pure function, no I/O. An empty input yields an empty slice.
//
// The output is sorted by date and author names are sorted within each day,
// but callers must not rely on either ordering.
func Aggregate(commits []model.CommitEvent) []model.DailyActivity {
	type bucket struct {
		commits int
		authors map[string]struct{}
	}

	buckets := make(map[time.Time]*bucket)
	for _, c := range commits {
		day := model.DayOf(c.Date)
		b := buckets[day]
		if b == nil {
			b = &bucket{authors: make(map[string]struct{})}
			buckets[day] = b
		}
		b.commits++
		b.authors[c.AuthorName] = struct{}{}
	}

	out := make([]model.DailyActivity, 0, len(buckets))
	for day, b := range buckets {
		authors := make([]string, 0, len(b.authors))
		for a := range b.authors {
			authors = append(authors, a)
		}
		sort.Strings(authors)
		out = append(out, model.DailyActivity{
			Date:    day,
			Commits: b.commits,
			Authors: authors,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out
}
