package logsink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/sudhakarkatam/foliochat/internal/model"
)

type fileConfig struct {
	Path string `json:"path"`
}

// fileSink appends one JSON line per chat turn to a local file.
type fileSink struct {
	mu   sync.Mutex
	path string
}

func init() {
	Register("file", createFileSink)
}

func createFileSink(args interface{}, deps Deps) (Sink, error) {
	cfg := &fileConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink path is required")
	}
	return &fileSink{path: cfg.Path}, nil
}

func (s *fileSink) Write(ctx context.Context, entry *model.ChatLog) error {
	_ = ctx
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(data, '\n'))
	return err
}
