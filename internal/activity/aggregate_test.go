// internal/activity/aggregate_test.go
package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-top-tracker/internal/model"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate(t *testing.T) {
	t.Run("empty input yields empty output", func(t *testing.T) {
		result := Aggregate(nil)
		assert.NotNil(t, result)
		assert.Empty(t, result)

		result = Aggregate([]model.CommitEvent{})
		assert.Empty(t, result)
	})

	t.Run("buckets commits by calendar date with distinct authors", func(t *testing.T) {
		commits := []model.CommitEvent{
			{AuthorName: "alice", Date: mustParse(t, "2024-01-01T10:00:00Z")},
			{AuthorName: "bob", Date: mustParse(t, "2024-01-01T12:00:00Z")},
			{AuthorName: "alice", Date: mustParse(t, "2024-01-02T09:00:00Z")},
		}

		result := Aggregate(commits)

		require.Len(t, result, 2)
		assert.Equal(t, day(2024, time.January, 1), result[0].Date)
		assert.Equal(t, 2, result[0].Commits)
		assert.Equal(t, []string{"alice", "bob"}, result[0].Authors)
		assert.Equal(t, day(2024, time.January, 2), result[1].Date)
		assert.Equal(t, 1, result[1].Commits)
		assert.Equal(t, []string{"alice"}, result[1].Authors)
	})

	t.Run("duplicate authors within a day collapse", func(t *testing.T) {
		commits := []model.CommitEvent{
			{AuthorName: "alice", Date: mustParse(t, "2024-03-10T08:00:00Z")},
			{AuthorName: "alice", Date: mustParse(t, "2024-03-10T09:00:00Z")},
			{AuthorName: "alice", Date: mustParse(t, "2024-03-10T10:00:00Z")},
		}

		result := Aggregate(commits)

		require.Len(t, result, 1)
		assert.Equal(t, 3, result[0].Commits)
		assert.Equal(t, []string{"alice"}, result[0].Authors)
	})

	t.Run("commit count matches events per date", func(t *testing.T) {
		var commits []model.CommitEvent
		for i := 0; i < 5; i++ {
			commits = append(commits, model.CommitEvent{
				AuthorName: "carol",
				Date:       mustParse(t, "2024-06-15T12:00:00Z").Add(time.Duration(i) * time.Minute),
			})
		}
		commits = append(commits, model.CommitEvent{
			AuthorName: "dave",
			Date:       mustParse(t, "2024-06-16T00:00:01Z"),
		})

		result := Aggregate(commits)

		require.Len(t, result, 2)
		assert.Equal(t, 5, result[0].Commits)
		assert.Equal(t, 1, result[1].Commits)
	})

	t.Run("date is taken in the timestamp's own zone", func(t *testing.T) {
		// 23:30+02:00 is 21:30 UTC; the provider-encoded date still wins.
		commits := []model.CommitEvent{
			{AuthorName: "erin", Date: mustParse(t, "2024-01-01T23:30:00+02:00")},
		}

		result := Aggregate(commits)

		require.Len(t, result, 1)
		assert.Equal(t, day(2024, time.January, 1), result[0].Date)
	})
}
