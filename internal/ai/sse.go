package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// DeltaDecoder turns a raw OpenAI-compatible SSE byte stream into text
// deltas: bytes in, zero or more parsed delta events out. Partial trailing
// lines stay buffered until the next Feed. The sentinel line `data: [DONE]`
// marks end of stream. A malformed data line is logged and dropped; it
// never aborts the stream.
type DeltaDecoder struct {
	buf  bytes.Buffer
	done bool
}

func NewDeltaDecoder() *DeltaDecoder {
	return &DeltaDecoder{}
}

type sseChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Feed consumes the next slice of upstream bytes and returns the text
// deltas completed by it, in order.
func (d *DeltaDecoder) Feed(ctx context.Context, p []byte) []string {
	if d.done {
		return nil
	}
	d.buf.Write(p)
	var deltas []string
	for {
		data := d.buf.Bytes()
		idx := bytes.IndexByte(data, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSpace(string(data[:idx]))
		d.buf.Next(idx + 1)
		if !strings.HasPrefix(line, "data:") {
			// blank keep-alives, comments and event: lines
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "[DONE]" {
			d.done = true
			break
		}
		var chunk sseChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			logutil.GetLogger(ctx).Warn("dropping malformed stream line",
				zap.String("line", truncate(payload, 200)),
				zap.Error(err),
			)
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		if content := chunk.Choices[0].Delta.Content; content != "" {
			deltas = append(deltas, content)
		}
	}
	return deltas
}

// Done reports whether the end-of-stream sentinel was seen.
func (d *DeltaDecoder) Done() bool {
	return d.done
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
