package ports

import (
	"context"
	"io"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

// UserRepository : SQL слой пользователей, замороженные включаются только явно через includeFrozen
type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string, includeFrozen bool) (*model.User, error)
	CountByUUIDs(ctx context.Context, exec sqlx.ExtContext, uuids []string, includeFrozen bool) (int, error)
	ConfirmEmail(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error
	SetConfirmEmailOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error
	SetResetPasswordOTP(ctx context.Context, exec sqlx.ExtContext, uuid, otpHash string, expiresAt time.Time) error
	ResetPassword(ctx context.Context, exec sqlx.ExtContext, uuid, passwordHash string, at time.Time) error
	UpdateChangeCredentialsTime(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error
	UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role, at time.Time) error
	Freeze(ctx context.Context, exec sqlx.ExtContext, uuid, by, reason string, at time.Time, stampCredentials bool) error
	Unfreeze(ctx context.Context, exec sqlx.ExtContext, uuid, by string, at time.Time) error
	DeleteFrozen(ctx context.Context, exec sqlx.ExtContext, uuid string) (bool, error)
	UpdateAvatar(ctx context.Context, exec sqlx.ExtContext, uuid, key string) error
	AddFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error
	RemoveFriendship(ctx context.Context, exec sqlx.ExtContext, first, second string) error
	Block(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error
	Unblock(ctx context.Context, exec sqlx.ExtContext, uuid, target string) error
}

type UserService interface {
	GetProfile(ctx context.Context, requester *model.User, uuid string) (*model.User, error)
	ChangeRole(ctx context.Context, actor *model.User, uuid string, role model.Role) error
	Freeze(ctx context.Context, actor *model.User, uuid, reason string) error
	Unfreeze(ctx context.Context, actor *model.User, uuid string) error
	DeleteUser(ctx context.Context, actor *model.User, uuid string) error
	AvatarUploadURL(ctx context.Context, user *model.User, filename, contentType string) (string, string, error)
	OpenAvatar(ctx context.Context, requester *model.User, uuid string) (io.ReadCloser, string, error)
	Block(ctx context.Context, user *model.User, target string) error
	Unblock(ctx context.Context, user *model.User, target string) error
}
