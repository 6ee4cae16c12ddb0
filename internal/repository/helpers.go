package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/config"
	"social-app/internal/util"
)

// frozenFilter : условие на замороженные записи, подставляется в каждое чтение явно
func frozenFilter(includeFrozen bool) string {
	if includeFrozen {
		return ""
	}
	return " AND freezed_at IS NULL"
}

func notFound(message string, err error) error {
	return &util.AppError{Kind: util.KindNotFound, Message: message, Err: err}
}

// execAffecting : выполняет UPDATE и возвращает NotFound, если ни одна строка не изменилась
func execAffecting(ctx context.Context, exec sqlx.ExtContext, logMessage, notFoundMessage, query string, args ...interface{}) error {
	result, err := exec.ExecContext(ctx, query, args...)
	if err != nil {
		return util.LogError(logMessage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return util.LogError(logMessage, err)
	}
	if affected == 0 {
		return notFound(notFoundMessage, nil)
	}
	return nil
}

// beginTX : открывает транзакцию, commit и rollback можно вызывать в любом порядке
func beginTX(ctx context.Context, database *config.Database) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := database.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, util.LogError("ошибка начала транзакции", err)
	}
	return tx, tx.Commit, tx.Rollback, nil
}

const cursorSeparator = "|"

// pageCursor : позиция в ленте, uuid различает посты с одинаковым created_at
type pageCursor struct {
	CreatedAt time.Time
	UUID      string
}

func (c pageCursor) String() string {
	return c.CreatedAt.UTC().Format(time.RFC3339Nano) + cursorSeparator + c.UUID
}

// parseCursor : пустой cursor означает первую страницу
func parseCursor(cursor string) (pageCursor, error) {
	if cursor == "" {
		return pageCursor{CreatedAt: time.Now().UTC().Add(time.Minute)}, nil
	}

	createdAt, id, ok := strings.Cut(cursor, cursorSeparator)
	if !ok || id == "" {
		return pageCursor{}, util.NewBadRequest("неверный формат cursor")
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return pageCursor{}, &util.AppError{Kind: util.KindBadRequest, Message: "неверный формат cursor", Err: err}
	}
	return pageCursor{CreatedAt: parsed, UUID: id}, nil
}
