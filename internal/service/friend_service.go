package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/util"
)

type FriendService struct {
	requests ports.FriendRepository
	users    ports.UserRepository
	db       sqlx.ExtContext
	now      func() time.Time
}

func NewFriendService(requests ports.FriendRepository, users ports.UserRepository, db *config.Database) *FriendService {
	return &FriendService{
		requests: requests,
		users:    users,
		db:       db,
		now:      time.Now,
	}
}

func (s *FriendService) SendRequest(ctx context.Context, sender *model.User, receiverUUID string) (*model.FriendRequest, error) {
	if receiverUUID == sender.UUID {
		return nil, util.NewBadRequest("нельзя отправить заявку самому себе")
	}
	if sender.IsFriend(receiverUUID) {
		return nil, util.NewConflict("пользователь уже в друзьях")
	}

	receiver, err := s.users.FindByUUID(ctx, s.db, receiverUUID, false)
	if err != nil {
		return nil, fmt.Errorf("[FriendService] ошибка получения пользователя: %w", err)
	}
	if receiver.HasBlocked(sender.UUID) || sender.HasBlocked(receiverUUID) {
		return nil, util.NewForbidden("заявка недоступна")
	}

	existing, err := s.requests.FindBetween(ctx, s.db, sender.UUID, receiverUUID)
	if err != nil {
		return nil, fmt.Errorf("[FriendService] ошибка проверки заявок: %w", err)
	}
	if existing != nil {
		return nil, util.NewConflict("заявка уже существует")
	}

	request := &model.FriendRequest{
		UUID:         uuid.NewString(),
		SenderUUID:   sender.UUID,
		ReceiverUUID: receiverUUID,
		Status:       model.FriendRequestPending,
	}
	if err := s.requests.Create(ctx, s.db, request); err != nil {
		return nil, fmt.Errorf("[FriendService] ошибка создания заявки: %w", err)
	}
	return request, nil
}

// AcceptRequest : отметка заявки и дружба в обе стороны в одной транзакции
func (s *FriendService) AcceptRequest(ctx context.Context, receiver *model.User, requestUUID string) error {
	exec, commit, rollback, err := s.requests.BeginTX(ctx)
	if err != nil {
		return fmt.Errorf("[FriendService] не удалось начать транзакцию: %w", err)
	}
	defer func() { _ = rollback() }()

	request, err := s.requests.FindPending(ctx, exec, requestUUID, receiver.UUID)
	if err != nil {
		return fmt.Errorf("[FriendService] ошибка получения заявки: %w", err)
	}
	if err := s.requests.MarkAccepted(ctx, exec, request.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[FriendService] ошибка принятия заявки: %w", err)
	}
	if err := s.users.AddFriendship(ctx, exec, request.SenderUUID, request.ReceiverUUID); err != nil {
		return fmt.Errorf("[FriendService] ошибка добавления в друзья: %w", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FriendService] не удалось закоммитить транзакцию", err)
	}
	return nil
}

func (s *FriendService) RejectRequest(ctx context.Context, receiver *model.User, requestUUID string) error {
	request, err := s.requests.FindPending(ctx, s.db, requestUUID, receiver.UUID)
	if err != nil {
		return fmt.Errorf("[FriendService] ошибка получения заявки: %w", err)
	}
	if err := s.requests.Delete(ctx, s.db, request.UUID); err != nil {
		return fmt.Errorf("[FriendService] ошибка отклонения заявки: %w", err)
	}
	return nil
}

func (s *FriendService) ListRequests(ctx context.Context, receiver *model.User) ([]*model.FriendRequest, error) {
	requests, err := s.requests.ListPending(ctx, s.db, receiver.UUID)
	if err != nil {
		return nil, fmt.Errorf("[FriendService] ошибка получения заявок: %w", err)
	}
	return requests, nil
}

// RemoveFriend : дружба и заявки между пользователями удаляются вместе
func (s *FriendService) RemoveFriend(ctx context.Context, user *model.User, friendUUID string) error {
	if !user.IsFriend(friendUUID) {
		return util.NewNotFound("пользователь не в друзьях")
	}

	exec, commit, rollback, err := s.requests.BeginTX(ctx)
	if err != nil {
		return fmt.Errorf("[FriendService] не удалось начать транзакцию: %w", err)
	}
	defer func() { _ = rollback() }()

	if err := s.users.RemoveFriendship(ctx, exec, user.UUID, friendUUID); err != nil {
		return fmt.Errorf("[FriendService] ошибка удаления из друзей: %w", err)
	}
	if err := s.requests.DeleteBetween(ctx, exec, user.UUID, friendUUID); err != nil {
		return fmt.Errorf("[FriendService] ошибка удаления заявок: %w", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[FriendService] не удалось закоммитить транзакцию", err)
	}
	return nil
}
