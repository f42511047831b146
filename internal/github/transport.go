// internal/github/transport.go
package github

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	maxRetries     = 3
	initialBackoff = 250 * time.Millisecond
)

// retryTransport retries transient upstream failures: 5xx responses are
// retried with exponential backoff up to maxRetries attempts, and rate-limited
// 403 responses wait until the advertised reset before retrying. All requests
// through this client are GETs, so replaying them is safe.
type retryTransport struct {
	next http.RoundTripper
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err = t.next.RoundTrip(req)
		if err != nil {
			if attempt == maxRetries {
				return nil, err
			}
			if !sleep(req, backoff(attempt)) {
				return nil, req.Context().Err()
			}
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError && attempt < maxRetries {
			discard(resp)
			if !sleep(req, backoff(attempt)) {
				return nil, req.Context().Err()
			}
			continue
		}

		if wait, limited := rateLimitWait(resp); limited && attempt < maxRetries {
			discard(resp)
			if !sleep(req, wait) {
				return nil, req.Context().Err()
			}
			continue
		}

		return resp, nil
	}

	return resp, err
}

// rateLimitWait reports whether the response is a rate-limit rejection and how
// long to wait for the window to reset.
func rateLimitWait(resp *http.Response) (time.Duration, bool) {
	if resp.StatusCode != http.StatusForbidden {
		return 0, false
	}
	reset := resp.Header.Get("X-RateLimit-Reset")
	if reset == "" {
		return 0, false
	}
	if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" && remaining != "0" {
		return 0, false
	}
	unix, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return 0, false
	}
	wait := time.Until(time.Unix(unix, 0))
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

func backoff(attempt int) time.Duration {
	return initialBackoff << (attempt - 1)
}

// sleep waits for d or until the request context is done. Returns false when
// the context won.
func sleep(req *http.Request, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return false
	case <-timer.C:
		return true
	}
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
