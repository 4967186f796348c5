package streamframe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_EscapesPayload(t *testing.T) {
	frame := string(Text("line one\nline \"two\""))
	require.Equal(t, "0:\"line one\\nline \\\"two\\\"\"\n", frame)
}

func TestDecodeText_RoundTrip(t *testing.T) {
	inputs := []string{"hello", "", "multi\nline", "unicode ⚡", "quote\"mark"}
	var stream strings.Builder
	for _, in := range inputs {
		stream.Write(Text(in))
	}
	var got []string
	for _, line := range strings.Split(stream.String(), "\n") {
		if line == "" {
			continue
		}
		payload, ok := DecodeText(line + "\n")
		require.True(t, ok, "line %q", line)
		got = append(got, payload)
	}
	require.Equal(t, inputs, got)
}

func TestError_UsesErrorPrefix(t *testing.T) {
	frame := string(Error("upstream failed"))
	require.True(t, strings.HasPrefix(frame, "3:"))
	require.True(t, strings.HasSuffix(frame, "\n"))

	_, ok := DecodeText(frame)
	require.False(t, ok)
}
