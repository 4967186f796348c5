package logsink

import (
	"context"
	"fmt"

	"github.com/sudhakarkatam/foliochat/internal/model"
	"github.com/sudhakarkatam/foliochat/internal/repo"
)

type dbSink struct {
	logs *repo.ChatLogRepo
}

func init() {
	Register("db", createDBSink)
}

func createDBSink(args interface{}, deps Deps) (Sink, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("db sink requires a database handle")
	}
	return &dbSink{logs: repo.NewChatLogRepo(deps.DB)}, nil
}

func (s *dbSink) Write(ctx context.Context, entry *model.ChatLog) error {
	return s.logs.Insert(ctx, entry)
}
