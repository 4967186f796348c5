package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *openrouterProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &openrouterProvider{
		apiKey:  "test-key",
		baseURL: server.URL,
		client:  server.Client(),
	}
}

func sseBody(deltas []string, malformedAt int) string {
	var sb strings.Builder
	for i, d := range deltas {
		if i == malformedAt {
			sb.WriteString("data: {malformed\n\n")
		}
		payload, _ := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{{"delta": map[string]string{"content": d}}},
		})
		sb.WriteString("data: " + string(payload) + "\n\n")
	}
	sb.WriteString("data: [DONE]\n\n")
	return sb.String()
}

func TestChatStream_RoundTripFidelity(t *testing.T) {
	deltas := []string{"The ", "quick ", "brown ", "fox"}
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var req openrouterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)
		require.Equal(t, model.RoleSystem, req.Messages[0].Role)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(deltas, -1))
	})

	var got strings.Builder
	err := provider.ChatStream(context.Background(), "some/model", "system prompt",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(delta string) error {
			got.WriteString(delta)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, "The quick brown fox", got.String())
}

func TestChatStream_MalformedLineDoesNotAbort(t *testing.T) {
	deltas := []string{"a", "b", "c", "d"}
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody(deltas, 2))
	})

	var got strings.Builder
	err := provider.ChatStream(context.Background(), "some/model", "",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(delta string) error {
			got.WriteString(delta)
			return nil
		})
	require.NoError(t, err)
	require.Equal(t, "abcd", got.String())
}

func TestChatStream_RateLimitCarriesResetTime(t *testing.T) {
	reset := time.Now().Add(2 * time.Minute).UnixMilli()
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"rate limited"}`)
	})

	err := provider.ChatStream(context.Background(), "some/model", "",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(string) error { return nil })

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusTooManyRequests, upErr.StatusCode)
	require.Equal(t, time.UnixMilli(reset), upErr.ResetAt)
	require.Contains(t, upErr.RetryHint(), "Resets at ")
}

func TestChatStream_RateLimitWithoutResetHeader(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := provider.ChatStream(context.Background(), "some/model", "",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(string) error { return nil })

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.True(t, upErr.ResetAt.IsZero())
	require.Equal(t, "Please try again later.", upErr.RetryHint())
}

func TestChatStream_MissingKeyFailsBeforeDispatch(t *testing.T) {
	called := false
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	provider.apiKey = ""

	err := provider.ChatStream(context.Background(), "some/model", "",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(string) error { return nil })
	require.ErrorIs(t, err, ErrUnavailable)
	require.False(t, called)
}

func TestChatStream_UpstreamAuthStatusSurfaced(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := provider.ChatStream(context.Background(), "some/model", "",
		[]model.ConversationMessage{{Role: model.RoleUser, Content: "hi"}},
		func(string) error { return nil })

	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	require.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
}
