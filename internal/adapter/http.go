package adapter

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/avetisov/jobscout/internal/model"
)

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// classifyStatus maps a non-2xx response to the engine's error taxonomy:
// 429 → rate limited (retried with longer backoff), 5xx → transient network
// failure, remaining 4xx → contract mismatch that retrying cannot fix, so it
// routes to the next adapter in the chain.
func classifyStatus(source string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &model.RateLimitError{
			Source:     source,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	case resp.StatusCode >= 500:
		return &model.NetworkError{
			Op:  source,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	default:
		return &model.ParseError{
			Source: source,
			Err:    fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}
}
