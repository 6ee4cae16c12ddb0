package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

type FriendRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, request *model.FriendRequest) error
	// FindBetween возвращает nil, nil если заявки между пользователями нет
	FindBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.FriendRequest, error)
	FindPending(ctx context.Context, exec sqlx.ExtContext, uuid, receiverUUID string) (*model.FriendRequest, error)
	ListPending(ctx context.Context, exec sqlx.ExtContext, receiverUUID string) ([]*model.FriendRequest, error)
	MarkAccepted(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error
	Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error
	DeleteBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) error
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type FriendService interface {
	SendRequest(ctx context.Context, sender *model.User, receiverUUID string) (*model.FriendRequest, error)
	AcceptRequest(ctx context.Context, receiver *model.User, requestUUID string) error
	RejectRequest(ctx context.Context, receiver *model.User, requestUUID string) error
	ListRequests(ctx context.Context, receiver *model.User) ([]*model.FriendRequest, error)
	RemoveFriend(ctx context.Context, user *model.User, friendUUID string) error
}
