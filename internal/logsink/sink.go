// Package logsink delivers completed chat turns to a configurable
// destination. Delivery is best-effort, at most once: callers fire writes
// from a detached goroutine and must not assume logs are durable.
package logsink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/sudhakarkatam/foliochat/internal/config"
	"github.com/sudhakarkatam/foliochat/internal/model"
)

type Sink interface {
	Write(ctx context.Context, entry *model.ChatLog) error
}

// Deps carries shared handles factories may need beyond their own JSON
// config blob.
type Deps struct {
	DB *sql.DB
}

type Factory func(args interface{}, deps Deps) (Sink, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registryMu.Lock()
	registry[key] = factory
	registryMu.Unlock()
}

func New(cfg config.LogSinkConfig, deps Deps) (Sink, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Type))
	if key == "" {
		return nil, fmt.Errorf("log_sink.type is required")
	}
	registryMu.RLock()
	factory := registry[key]
	registryMu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("unsupported log sink type: %s", cfg.Type)
	}
	return factory(cfg.Data, deps)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode sink config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode sink config: %w", err)
	}
	return nil
}
