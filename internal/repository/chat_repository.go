package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

type ChatRepository struct {
	*config.Database
}

func NewChatRepository(database *config.Database) *ChatRepository {
	return &ChatRepository{database}
}

// FindOneToOne : переписка, в которой участвуют ровно эти двое
func (r *ChatRepository) FindOneToOne(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.Chat, error) {
	query := `
		SELECT uuid, participants, created_at, updated_at
		FROM chats
		WHERE participants @> $1::text[] AND cardinality(participants) = 2
		LIMIT 1
	`
	var chat model.Chat
	err := sqlx.GetContext(ctx, exec, &chat, query, pq.Array([]string{first, second}))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[ChatRepo] не удалось найти переписку", err)
	}
	return &chat, nil
}

func (r *ChatRepository) CreateChat(ctx context.Context, exec sqlx.ExtContext, chat *model.Chat) error {
	query := `INSERT INTO chats (uuid, participants) VALUES ($1, $2) RETURNING created_at, updated_at`
	err := exec.QueryRowxContext(ctx, query, chat.UUID, pq.Array(chat.Participants)).Scan(&chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return util.LogError("[ChatRepo] ошибка создания переписки", err)
	}
	return nil
}

func (r *ChatRepository) AppendMessage(ctx context.Context, exec sqlx.ExtContext, message *model.Message) error {
	query := `
		INSERT INTO messages (uuid, chat_uuid, sender_uuid, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := exec.QueryRowxContext(ctx, query, message.UUID, message.ChatUUID, message.SenderUUID, message.Content).
		Scan(&message.CreatedAt)
	if err != nil {
		return util.LogError("[ChatRepo] ошибка сохранения сообщения", err)
	}
	if _, err := exec.ExecContext(ctx, `UPDATE chats SET updated_at = $2 WHERE uuid = $1`, message.ChatUUID, message.CreatedAt); err != nil {
		return util.LogError("[ChatRepo] не удалось обновить переписку", err)
	}
	return nil
}

// ListMessages : последние limit сообщений в хронологическом порядке
func (r *ChatRepository) ListMessages(ctx context.Context, exec sqlx.ExtContext, chatUUID string, limit int) ([]model.Message, error) {
	query := `
		SELECT uuid, chat_uuid, sender_uuid, content, created_at
		FROM (
			SELECT uuid, chat_uuid, sender_uuid, content, created_at
			FROM messages
			WHERE chat_uuid = $1
			ORDER BY created_at DESC
			LIMIT $2
		) latest
		ORDER BY created_at ASC
	`
	var messages []model.Message
	if err := sqlx.SelectContext(ctx, exec, &messages, query, chatUUID, limit); err != nil {
		return nil, util.LogError("[ChatRepo] не удалось получить сообщения", err)
	}
	return messages, nil
}
