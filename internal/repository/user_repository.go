package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

const userColumns = `uuid, first_name, last_name, email, role, provider, password_hash, friends, blocked_users,
	change_credentials_time, confirm_email_otp, confirmed_at, reset_password_otp, otp_expires_at, avatar,
	freezed_at, freezed_by, freeze_reason, restored_at, restored_by, created_at, updated_at`

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, first_name, last_name, email, role, provider, password_hash, confirm_email_otp, otp_expires_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	err := exec.QueryRowxContext(ctx, query,
		user.UUID, user.FirstName, user.LastName, user.Email, user.Role, user.Provider,
		user.PasswordHash, user.ConfirmEmailOTP, user.OTPExpiresAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, &util.AppError{Kind: util.KindConflict, Message: "пользователь с такой почтой уже существует", Err: err}
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return user, nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1` + frozenFilter(includeFrozen)
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, uuid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("пользователь не найден", err)
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// FindByEmail : ищет пользователя по почте
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string, includeFrozen bool) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1` + frozenFilter(includeFrozen)
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("пользователь не найден", err)
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя по почте", err)
	}
	return &user, nil
}

// CountByUUIDs : сколько из переданных UUID существует, для проверки отметок и списков друзей
func (r *UserRepository) CountByUUIDs(ctx context.Context, exec sqlx.ExtContext, uuids []string, includeFrozen bool) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE uuid = ANY($1)` + frozenFilter(includeFrozen)
	var count int
	if err := sqlx.GetContext(ctx, exec, &count, query, pq.Array(uuids)); err != nil {
		return 0, util.LogError("[UserRepo] ошибка подсчёта пользователей", err)
	}
	return count, nil
}

// ConfirmEmail : отмечает почту подтверждённой и стирает код
func (r *UserRepository) ConfirmEmail(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	query := `
		UPDATE users
		SET confirmed_at = $2, confirm_email_otp = NULL, otp_expires_at = NULL, updated_at = $2
		WHERE uuid = $1 AND confirmed_at IS NULL
	`
	return execAffecting(ctx, exec, "[UserRepo] не удалось подтвердить почту", "пользователь не найден", query, uuid, at)
}

// SetConfirmEmailOTP : заменяет код подтверждения, пока почта не подтверждена
func (r *UserRepository) SetConfirmEmailOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET confirm_email_otp = $2, otp_expires_at = $3, updated_at = NOW()
		WHERE uuid = $1 AND confirmed_at IS NULL
	`
	return execAffecting(ctx, exec, "[UserRepo] не удалось сохранить код подтверждения", "пользователь не найден", query, uuid, otpHash, expiresAt)
}

func (r *UserRepository) SetResetPasswordOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_password_otp = $2, otp_expires_at = $3, updated_at = NOW() WHERE uuid = $1`
	return execAffecting(ctx, exec, "[UserRepo] не удалось сохранить код сброса пароля", "пользователь не найден", query, uuid, otpHash, expiresAt)
}

// ResetPassword : меняет пароль и инвалидирует все ранее выданные токены
func (r *UserRepository) ResetPassword(ctx context.Context, exec sqlx.ExtContext, uuid, passwordHash string, at time.Time) error {
	query := `
		UPDATE users
		SET password_hash = $2, change_credentials_time = $3,
		    reset_password_otp = NULL, otp_expires_at = NULL, updated_at = $3
		WHERE uuid = $1
	`
	return execAffecting(ctx, exec, "[UserRepo] не удалось обновить пароль", "пользователь не найден", query, uuid, passwordHash, at)
}

// UpdateChangeCredentialsTime : все токены, выданные раньше at, перестают действовать
func (r *UserRepository) UpdateChangeCredentialsTime(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	query := `UPDATE users SET change_credentials_time = $2, updated_at = $2 WHERE uuid = $1`
	return execAffecting(ctx, exec, "[UserRepo] не удалось обновить change_credentials_time", "пользователь не найден", query, uuid, at)
}

// UpdateRole : новая роль требует новой пары токенов с другим секретом
func (r *UserRepository) UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, at time.Time) error {
	query := `UPDATE users SET role = $2, change_credentials_time = $3, updated_at = $3 WHERE uuid = $1 AND freezed_at IS NULL`
	return execAffecting(ctx, exec, "[UserRepo] не удалось изменить роль", "пользователь не найден", query, uuid, role, at)
}

// Freeze : замораживает аккаунт, stampCredentials дополнительно отзывает все токены
func (r *UserRepository) Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by, reason string, at time.Time, stampCredentials bool) error {
	query := `
		UPDATE users
		SET freezed_at = $3, freezed_by = $2, freeze_reason = $4,
		    restored_at = NULL, restored_by = NULL,
		    change_credentials_time = CASE WHEN $5 THEN $3 ELSE change_credentials_time END,
		    updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NULL
	`
	return execAffecting(ctx, exec, "[UserRepo] не удалось заморозить пользователя", "пользователь не найден или уже заморожен",
		query, uuid, by, at, reason, stampCredentials)
}

func (r *UserRepository) Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error {
	query := `
		UPDATE users
		SET freezed_at = NULL, freezed_by = NULL, freeze_reason = NULL,
		    restored_at = $3, restored_by = $2, updated_at = $3
		WHERE uuid = $1 AND freezed_at IS NOT NULL
	`
	return execAffecting(ctx, exec, "[UserRepo] не удалось разморозить пользователя", "пользователь не найден или не заморожен",
		query, uuid, by, at)
}

// DeleteFrozen : удаляет пользователя, только если он заморожен
func (r *UserRepository) DeleteFrozen(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM users WHERE uuid = $1 AND freezed_at IS NOT NULL`, uuid)
	if err != nil {
		return false, util.LogError("[UserRepo] не удалось удалить пользователя", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[UserRepo] не удалось удалить пользователя", err)
	}
	return affected > 0, nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, exec sqlx.ExtContext, uuid, key string) error {
	query := `UPDATE users SET avatar = $2, updated_at = NOW() WHERE uuid = $1`
	return execAffecting(ctx, exec, "[UserRepo] не удалось обновить аватар", "пользователь не найден", query, uuid, key)
}

// AddFriendship : добавляет пользователей в друзья друг другу
func (r *UserRepository) AddFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	query := `
		UPDATE users
		SET friends = array_append(friends, $2::text), updated_at = NOW()
		WHERE uuid = $1 AND NOT ($2::text = ANY(friends))
	`
	for _, pair := range [][2]string{{first, second}, {second, first}} {
		if _, err := exec.ExecContext(ctx, query, pair[0], pair[1]); err != nil {
			return util.LogError("[UserRepo] не удалось добавить друга", err)
		}
	}
	return nil
}

func (r *UserRepository) RemoveFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	query := `UPDATE users SET friends = array_remove(friends, $2::text), updated_at = NOW() WHERE uuid = $1`
	for _, pair := range [][2]string{{first, second}, {second, first}} {
		if _, err := exec.ExecContext(ctx, query, pair[0], pair[1]); err != nil {
			return util.LogError("[UserRepo] не удалось удалить друга", err)
		}
	}
	return nil
}

func (r *UserRepository) Block(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error {
	query := `
		UPDATE users
		SET blocked_users = array_append(blocked_users, $2::text), updated_at = NOW()
		WHERE uuid = $1 AND NOT ($2::text = ANY(blocked_users))
	`
	if _, err := exec.ExecContext(ctx, query, uuid, target); err != nil {
		return util.LogError("[UserRepo] не удалось заблокировать пользователя", err)
	}
	return nil
}

func (r *UserRepository) Unblock(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error {
	query := `UPDATE users SET blocked_users = array_remove(blocked_users, $2::text), updated_at = NOW() WHERE uuid = $1`
	if _, err := exec.ExecContext(ctx, query, uuid, target); err != nil {
		return util.LogError("[UserRepo] не удалось разблокировать пользователя", err)
	}
	return nil
}
