package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/sudhakarkatam/foliochat/internal/model"
	"github.com/sudhakarkatam/foliochat/internal/pkg/dbutil"
)

type ChatLogRepo struct {
	db *sql.DB
}

func NewChatLogRepo(db *sql.DB) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

func (r *ChatLogRepo) Insert(ctx context.Context, entry *model.ChatLog) error {
	data := map[string]interface{}{
		"provider": entry.Provider,
		"model":    entry.Model,
		"query":    entry.Query,
		"response": entry.Response,
		"ctime":    entry.Ctime,
	}
	sqlStr, args, err := builder.BuildInsert("chat_logs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
