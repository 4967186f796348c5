package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func dataLine(content string) string {
	return `data: {"choices":[{"delta":{"content":"` + content + `"}}]}` + "\n"
}

func TestDeltaDecoder_ParsesDeltasAcrossChunkBoundaries(t *testing.T) {
	ctx := context.Background()
	stream := dataLine("Hello") + dataLine(" world") + "data: [DONE]\n"

	// feed one byte at a time to exercise the partial-line buffer
	decoder := NewDeltaDecoder()
	var got []string
	for i := 0; i < len(stream); i++ {
		got = append(got, decoder.Feed(ctx, []byte{stream[i]})...)
	}
	require.Equal(t, []string{"Hello", " world"}, got)
	require.True(t, decoder.Done())
}

func TestDeltaDecoder_DropsMalformedLine(t *testing.T) {
	ctx := context.Background()
	stream := dataLine("one") +
		"data: {malformed\n" +
		dataLine("two") +
		"data: [DONE]\n"

	decoder := NewDeltaDecoder()
	got := decoder.Feed(ctx, []byte(stream))
	require.Equal(t, []string{"one", "two"}, got)
	require.True(t, decoder.Done())
}

func TestDeltaDecoder_IgnoresNonDataLines(t *testing.T) {
	ctx := context.Background()
	stream := ": keep-alive\n\nevent: message\n" + dataLine("x")

	decoder := NewDeltaDecoder()
	got := decoder.Feed(ctx, []byte(stream))
	require.Equal(t, []string{"x"}, got)
	require.False(t, decoder.Done())
}

func TestDeltaDecoder_StopsAfterDone(t *testing.T) {
	ctx := context.Background()
	decoder := NewDeltaDecoder()
	decoder.Feed(ctx, []byte("data: [DONE]\n"))
	got := decoder.Feed(ctx, []byte(dataLine("late")))
	require.Empty(t, got)
}

func TestDeltaDecoder_RetainsTrailingPartialLine(t *testing.T) {
	ctx := context.Background()
	decoder := NewDeltaDecoder()
	full := dataLine("abc")
	head, tail := full[:10], full[10:]

	require.Empty(t, decoder.Feed(ctx, []byte(strings.TrimSuffix(head, "\n"))))
	require.Equal(t, []string{"abc"}, decoder.Feed(ctx, []byte(tail)))
}
