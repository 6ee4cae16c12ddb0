package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/util"
)

const chatHistoryLimit = 100

type ChatService struct {
	chats ports.ChatRepository
	users ports.UserRepository
	db    sqlx.ExtContext
}

func NewChatService(chats ports.ChatRepository, users ports.UserRepository, db *config.Database) *ChatService {
	return &ChatService{chats: chats, users: users, db: db}
}

// SendMessage : сохраняет сообщение в личную переписку, создавая её при первом сообщении
func (s *ChatService) SendMessage(ctx context.Context, sender *model.User, receiverUUID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.NewBadRequest("сообщение не может быть пустым")
	}
	if receiverUUID == sender.UUID {
		return nil, util.NewBadRequest("нельзя отправить сообщение самому себе")
	}

	receiver, err := s.users.FindByUUID(ctx, s.db, receiverUUID, false)
	if err != nil {
		return nil, fmt.Errorf("[ChatService] ошибка получения получателя: %w", err)
	}
	if receiver.HasBlocked(sender.UUID) {
		return nil, util.NewForbidden("пользователь ограничил сообщения")
	}

	chat, err := s.chats.FindOneToOne(ctx, s.db, sender.UUID, receiverUUID)
	if err != nil {
		return nil, fmt.Errorf("[ChatService] ошибка поиска переписки: %w", err)
	}
	if chat == nil {
		chat = &model.Chat{UUID: uuid.NewString(), Participants: []string{sender.UUID, receiverUUID}}
		if err := s.chats.CreateChat(ctx, s.db, chat); err != nil {
			return nil, fmt.Errorf("[ChatService] ошибка создания переписки: %w", err)
		}
	}

	message := &model.Message{
		UUID:       uuid.NewString(),
		ChatUUID:   chat.UUID,
		SenderUUID: sender.UUID,
		Content:    content,
	}
	if err := s.chats.AppendMessage(ctx, s.db, message); err != nil {
		return nil, fmt.Errorf("[ChatService] ошибка сохранения сообщения: %w", err)
	}
	return message, nil
}

func (s *ChatService) GetChat(ctx context.Context, user *model.User, otherUUID string) (*model.Chat, error) {
	chat, err := s.chats.FindOneToOne(ctx, s.db, user.UUID, otherUUID)
	if err != nil {
		return nil, fmt.Errorf("[ChatService] ошибка поиска переписки: %w", err)
	}
	if chat == nil {
		return nil, util.NewNotFound("переписка не найдена")
	}

	messages, err := s.chats.ListMessages(ctx, s.db, chat.UUID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("[ChatService] ошибка получения сообщений: %w", err)
	}
	chat.Messages = messages
	return chat, nil
}
