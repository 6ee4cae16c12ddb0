package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/util"
)

type UserService struct {
	userRepository ports.UserRepository
	storage        ports.S3Storage
	db             sqlx.ExtContext
	presignTTL     time.Duration
	now            func() time.Time
}

func NewUserService(
	userRepository ports.UserRepository,
	storage ports.S3Storage,
	db *config.Database,
	presignTTL time.Duration,
) *UserService {
	return &UserService{
		userRepository: userRepository,
		storage:        storage,
		db:             db,
		presignTTL:     presignTTL,
		now:            time.Now,
	}
}

func isAdmin(user *model.User) bool {
	return user.Role == model.RoleAdmin || user.Role == model.RoleSuperAdmin
}

// GetProfile : администраторы видят и замороженные аккаунты
func (s *UserService) GetProfile(ctx context.Context, requester *model.User, uuid string) (*model.User, error) {
	if uuid == "" || uuid == requester.UUID {
		return requester, nil
	}

	user, err := s.userRepository.FindByUUID(ctx, s.db, uuid, isAdmin(requester))
	if err != nil {
		return nil, fmt.Errorf("[UserService] ошибка получения профиля: %w", err)
	}
	if user.HasBlocked(requester.UUID) && !isAdmin(requester) {
		return nil, util.NewNotFound("пользователь не найден")
	}
	return user, nil
}

// ChangeRole : новая роль действует только после повторного входа
func (s *UserService) ChangeRole(ctx context.Context, actor *model.User, uuid string, role model.Role) error {
	if actor.Role != model.RoleSuperAdmin {
		return util.NewForbidden("менять роли может только superAdmin")
	}
	if !role.Valid() {
		return util.NewBadRequest("неизвестная роль")
	}
	if uuid == actor.UUID {
		return util.NewBadRequest("нельзя изменить собственную роль")
	}

	if err := s.userRepository.UpdateRole(ctx, s.db, uuid, role, s.now().UTC()); err != nil {
		return fmt.Errorf("[UserService] ошибка изменения роли: %w", err)
	}
	log.Info().Str("actor", actor.UUID).Str("user", uuid).Str("role", string(role)).Msg("[UserService] роль изменена")
	return nil
}

// Freeze : пользователь может заморозить себя, администратор любого кроме superAdmin.
// Заморозка администратором отзывает все токены пользователя.
func (s *UserService) Freeze(ctx context.Context, actor *model.User, uuid, reason string) error {
	if uuid == "" {
		uuid = actor.UUID
	}
	self := uuid == actor.UUID

	if !self {
		if !isAdmin(actor) {
			return util.NewForbidden("недостаточно прав для заморозки пользователя")
		}
		target, err := s.userRepository.FindByUUID(ctx, s.db, uuid, true)
		if err != nil {
			return fmt.Errorf("[UserService] ошибка получения пользователя: %w", err)
		}
		if target.Role == model.RoleSuperAdmin && actor.Role != model.RoleSuperAdmin {
			return util.NewForbidden("нельзя заморозить superAdmin")
		}
	}

	if err := s.userRepository.Freeze(ctx, s.db, uuid, actor.UUID, reason, s.now().UTC(), !self); err != nil {
		return fmt.Errorf("[UserService] ошибка заморозки: %w", err)
	}
	return nil
}

// Unfreeze : администратор, или сам пользователь, если замораживал себя сам
func (s *UserService) Unfreeze(ctx context.Context, actor *model.User, uuid string) error {
	if uuid == "" {
		uuid = actor.UUID
	}

	if !isAdmin(actor) {
		if uuid != actor.UUID {
			return util.NewForbidden("недостаточно прав для разморозки пользователя")
		}
		if !actor.IsSelfFrozen() {
			return util.NewForbidden("аккаунт заморожен администратором")
		}
	}

	if err := s.userRepository.Unfreeze(ctx, s.db, uuid, actor.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[UserService] ошибка разморозки: %w", err)
	}
	return nil
}

// DeleteUser : удаляются только предварительно замороженные аккаунты
func (s *UserService) DeleteUser(ctx context.Context, actor *model.User, uuid string) error {
	if !isAdmin(actor) {
		return util.NewForbidden("недостаточно прав для удаления пользователя")
	}

	deleted, err := s.userRepository.DeleteFrozen(ctx, s.db, uuid)
	if err != nil {
		return fmt.Errorf("[UserService] ошибка удаления пользователя: %w", err)
	}
	if !deleted {
		return util.NewNotFound("пользователь не найден или не заморожен")
	}

	keys, err := s.storage.ListObjects(ctx, userFolder(uuid)+"/")
	if err != nil {
		log.Warn().Err(err).Str("user", uuid).Msg("[UserService] не удалось получить файлы пользователя")
		return nil
	}
	if err := s.storage.DeleteObjects(ctx, keys); err != nil {
		log.Warn().Err(err).Str("user", uuid).Msg("[UserService] не удалось удалить файлы пользователя")
	}
	return nil
}

// AvatarUploadURL : pre-signed PUT URL, ключ сразу сохраняется в профиле
func (s *UserService) AvatarUploadURL(ctx context.Context, user *model.User, filename, contentType string) (string, string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", util.NewBadRequest("аватар должен быть изображением")
	}

	key := path.Join(userFolder(user.UUID), "avatar", uuid.NewString()+path.Ext(filename))
	url, err := s.storage.GeneratePresignedPutURL(ctx, key, s.presignTTL)
	if err != nil {
		return "", "", fmt.Errorf("[UserService] ошибка генерации ссылки: %w", err)
	}

	if err := s.userRepository.UpdateAvatar(ctx, s.db, user.UUID, key); err != nil {
		return "", "", fmt.Errorf("[UserService] ошибка сохранения аватара: %w", err)
	}

	if user.Avatar != nil && *user.Avatar != "" {
		if err := s.storage.DeleteObject(ctx, *user.Avatar); err != nil {
			log.Warn().Err(err).Str("key", *user.Avatar).Msg("[UserService] старый аватар не удалён")
		}
	}
	return url, key, nil
}

// OpenAvatar : поток аватара пользователя, видимого requester
func (s *UserService) OpenAvatar(ctx context.Context, requester *model.User, uuid string) (io.ReadCloser, string, error) {
	user, err := s.GetProfile(ctx, requester, uuid)
	if err != nil {
		return nil, "", err
	}
	if user.Avatar == nil || *user.Avatar == "" {
		return nil, "", util.NewNotFound("аватар не загружен")
	}

	body, contentType, err := s.storage.GetObject(ctx, *user.Avatar)
	if err != nil {
		return nil, "", fmt.Errorf("[UserService] ошибка получения аватара: %w", err)
	}
	return body, contentType, nil
}

// Block : блокировка заодно разрывает дружбу
func (s *UserService) Block(ctx context.Context, user *model.User, target string) error {
	if target == user.UUID {
		return util.NewBadRequest("нельзя заблокировать самого себя")
	}
	if _, err := s.userRepository.FindByUUID(ctx, s.db, target, false); err != nil {
		return fmt.Errorf("[UserService] ошибка получения пользователя: %w", err)
	}

	if err := s.userRepository.Block(ctx, s.db, user.UUID, target); err != nil {
		return fmt.Errorf("[UserService] ошибка блокировки: %w", err)
	}
	if user.IsFriend(target) {
		if err := s.userRepository.RemoveFriendship(ctx, s.db, user.UUID, target); err != nil {
			return fmt.Errorf("[UserService] ошибка удаления из друзей: %w", err)
		}
	}
	return nil
}

func (s *UserService) Unblock(ctx context.Context, user *model.User, target string) error {
	if err := s.userRepository.Unblock(ctx, s.db, user.UUID, target); err != nil {
		return fmt.Errorf("[UserService] ошибка разблокировки: %w", err)
	}
	return nil
}

func userFolder(uuid string) string {
	return path.Join("users", uuid)
}
