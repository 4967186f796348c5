package ai

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryHint_WithResetTime(t *testing.T) {
	reset := time.Now().Add(90 * time.Second)
	err := &UpstreamError{StatusCode: 429, ResetAt: reset}
	hint := err.RetryHint()
	require.Contains(t, hint, "Resets at ")
	require.Contains(t, hint, reset.Local().Format("2006"))
}

func TestRetryHint_WithoutResetTime(t *testing.T) {
	err := &UpstreamError{StatusCode: 429}
	require.Equal(t, "Please try again later.", err.RetryHint())
}

func TestParseResetMillis(t *testing.T) {
	future := time.Now().Add(time.Minute).UnixMilli()
	got := parseResetMillis(strconv.FormatInt(future, 10))
	require.Equal(t, time.UnixMilli(future), got)

	require.True(t, parseResetMillis("").IsZero())
	require.True(t, parseResetMillis("soon").IsZero())
	require.True(t, parseResetMillis("-5").IsZero())
}
