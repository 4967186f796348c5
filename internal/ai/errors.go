package ai

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrUnavailable means the provider has no credential configured. Handlers
// map it to a pre-stream configuration error; no upstream call is made.
var ErrUnavailable = errors.New("ai provider not configured")

// UpstreamError captures a non-2xx upstream response observed before any
// frame was relayed downstream.
type UpstreamError struct {
	StatusCode int
	Message    string
	// ResetAt is the rate-limit reset time parsed from provider metadata
	// headers; zero when the provider did not report one.
	ResetAt time.Time
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed: status=%d: %s", e.StatusCode, e.Message)
}

// RetryHint renders the human-readable retry suffix for rate-limit errors.
func (e *UpstreamError) RetryHint() string {
	if e.ResetAt.IsZero() {
		return "Please try again later."
	}
	return "Resets at " + e.ResetAt.Local().Format("Mon, 02 Jan 2006 15:04:05 MST") + "."
}

// parseResetMillis parses an X-RateLimit-Reset style header carrying a unix
// millisecond timestamp.
func parseResetMillis(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ms, err := strconv.ParseInt(value, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
