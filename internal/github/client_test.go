// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-top-tracker/internal/apperrors"
)

// setupTestClient creates a httptest server and a Client pointing to it. The
// retry transport stays in the chain so its behavior is exercised too.
func setupTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient("", logger)

	httpClient := &http.Client{Transport: &retryTransport{next: http.DefaultTransport}}
	testClient, err := github.NewClient(httpClient).WithEnterpriseURLs(server.URL, server.URL)
	require.NoError(t, err)
	client.gh = testClient

	return client, server
}

func TestClient_TopRepositories(t *testing.T) {
	t.Run("maps the search payload in ranking order", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/search/repositories"))
			assert.Equal(t, "stars:>1", r.URL.Query().Get("q"))
			assert.Equal(t, "stars", r.URL.Query().Get("sort"))
			assert.Equal(t, "desc", r.URL.Query().Get("order"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{
				"total_count": 2,
				"items": [
					{"name": "linux", "owner": {"login": "torvalds"}, "stargazers_count": 170000, "watchers_count": 170000, "forks_count": 50000, "open_issues_count": 300, "language": "C"},
					{"name": "go", "owner": {"login": "golang"}, "stargazers_count": 120000, "watchers_count": 120000, "forks_count": 17000, "open_issues_count": 9000}
				]
			}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		summaries, err := client.TopRepositories(context.Background(), 100)

		require.NoError(t, err)
		require.Len(t, summaries, 2)
		assert.Equal(t, "torvalds", summaries[0].Owner)
		assert.Equal(t, "linux", summaries[0].Name)
		assert.Equal(t, 170000, summaries[0].Stars)
		assert.Equal(t, 50000, summaries[0].Forks)
		require.NotNil(t, summaries[0].Language)
		assert.Equal(t, "C", *summaries[0].Language)
		assert.Equal(t, "golang", summaries[1].Owner)
		assert.Nil(t, summaries[1].Language)
	})

	t.Run("truncates to the requested limit", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"total_count": 3, "items": [
				{"name": "a", "owner": {"login": "x"}},
				{"name": "b", "owner": {"login": "y"}},
				{"name": "c", "owner": {"login": "z"}}
			]}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		summaries, err := client.TopRepositories(context.Background(), 2)

		require.NoError(t, err)
		assert.Len(t, summaries, 2)
	})

	t.Run("wraps upstream failures as provider errors", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprintln(w, `{"message": "Validation Failed"}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.TopRepositories(context.Background(), 100)

		require.Error(t, err)
		var provErr *apperrors.ProviderError
		assert.ErrorAs(t, err, &provErr)
	})
}

func TestClient_Commits(t *testing.T) {
	t.Run("follows pagination and maps commit events", func(t *testing.T) {
		var server *httptest.Server
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/repos/test/repo/commits"))
			if r.URL.Query().Get("page") == "" {
				w.Header().Set("Link", fmt.Sprintf(`<%s/api/v3/repos/test/repo/commits?page=2>; rel="next"`, server.URL))
				w.WriteHeader(http.StatusOK)
				fmt.Fprintln(w, `[{"sha": "abc", "commit": {"author": {"name": "alice", "date": "2024-01-01T10:00:00Z"}}}]`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[{"sha": "def", "commit": {"author": {"name": "bob", "date": "2024-01-02T11:00:00Z"}}}]`)
		})
		client, srv := setupTestClient(t, handler)
		server = srv
		defer server.Close()

		events, err := client.Commits(context.Background(), "test", "repo", time.Time{})

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, "alice", events[0].AuthorName)
		assert.Equal(t, "bob", events[1].AuthorName)
		assert.Equal(t, time.Date(2024, time.January, 2, 11, 0, 0, 0, time.UTC), events[1].Date)
	})

	t.Run("passes the since lower bound through", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.URL.Query().Get("since"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		since := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
		events, err := client.Commits(context.Background(), "test", "repo", since)

		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("omits since when fetching full history", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.URL.Query().Get("since"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[]`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.Commits(context.Background(), "test", "repo", time.Time{})
		require.NoError(t, err)
	})
}

func TestClient_Retry(t *testing.T) {
	t.Run("retries on 503 server error and succeeds", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.WriteHeader(http.StatusServiceUnavailable) // Fail first time
				return
			}
			w.WriteHeader(http.StatusOK) // Succeed second time
			fmt.Fprintln(w, `{"total_count": 0, "items": []}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.TopRepositories(context.Background(), 100)

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount), "should have made two requests")
	})

	t.Run("waits for the rate limit reset", func(t *testing.T) {
		var requestCount int32
		resetTime := time.Now().Add(50 * time.Millisecond) // Short wait time for test
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count := atomic.AddInt32(&requestCount, 1)
			if count == 1 {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetTime.Unix()))
				w.WriteHeader(http.StatusForbidden)
				fmt.Fprintln(w, `{"message": "API rate limit exceeded"}`)
				return
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `{"total_count": 0, "items": []}`)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.TopRepositories(context.Background(), 100)

		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})

	t.Run("fails after max retries on persistent server error", func(t *testing.T) {
		var requestCount int32
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		client, server := setupTestClient(t, handler)
		defer server.Close()

		_, err := client.TopRepositories(context.Background(), 100)

		require.Error(t, err)
		assert.Equal(t, int32(maxRetries), atomic.LoadInt32(&requestCount))
	})
}
