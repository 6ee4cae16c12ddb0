package ports

import (
	"context"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

type ChatRepository interface {
	// FindOneToOne возвращает nil, nil если переписки ещё нет
	FindOneToOne(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.Chat, error)
	CreateChat(ctx context.Context, exec sqlx.ExtContext, chat *model.Chat) error
	AppendMessage(ctx context.Context, exec sqlx.ExtContext, message *model.Message) error
	ListMessages(ctx context.Context, exec sqlx.ExtContext, chatUUID string, limit int) ([]model.Message, error)
}

type ChatService interface {
	SendMessage(ctx context.Context, sender *model.User, receiverUUID, content string) (*model.Message, error)
	GetChat(ctx context.Context, user *model.User, otherUUID string) (*model.Chat, error)
}
