// Package streamframe implements the downstream wire protocol shared by all
// relay endpoints: an ordered, append-only sequence of frames, one per line,
// with no end marker other than connection close.
//
//	0:"<JSON-escaped text>"\n   incremental response text
//	3:"<JSON-escaped text>"\n   terminal error, stream ends after it
package streamframe

import (
	"encoding/json"
	"strings"
)

// ProtocolHeader marks responses carrying this frame protocol.
const (
	ProtocolHeader  = "X-Stream-Protocol"
	ProtocolVersion = "v1"
)

const (
	textPrefix  = "0:"
	errorPrefix = "3:"
)

// Text encodes one text delta as a frame.
func Text(delta string) []byte {
	return encode(textPrefix, delta)
}

// Error encodes a terminal error frame. Relays emit at most one, as the
// last frame before closing the stream.
func Error(message string) []byte {
	return encode(errorPrefix, message)
}

func encode(prefix, payload string) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		// strings always marshal; keep the frame stream well-formed anyway
		data = []byte(`""`)
	}
	buf := make([]byte, 0, len(prefix)+len(data)+1)
	buf = append(buf, prefix...)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	return buf
}

// DecodeText parses one frame line and returns its payload when it is a
// text frame. Used by tests and stream consumers.
func DecodeText(line string) (string, bool) {
	line = strings.TrimSuffix(line, "\n")
	if !strings.HasPrefix(line, textPrefix) {
		return "", false
	}
	var payload string
	if err := json.Unmarshal([]byte(line[len(textPrefix):]), &payload); err != nil {
		return "", false
	}
	return payload, true
}
