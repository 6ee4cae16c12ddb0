package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

const friendRequestColumns = `uuid, sender_uuid, receiver_uuid, status, accepted_at, created_at, updated_at`

type FriendRepository struct {
	*config.Database
}

func NewFriendRepository(database *config.Database) *FriendRepository {
	return &FriendRepository{database}
}

func (r *FriendRepository) Create(ctx context.Context, exec sqlx.ExtContext, request *model.FriendRequest) error {
	query := `
		INSERT INTO friend_requests (uuid, sender_uuid, receiver_uuid, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err := exec.QueryRowxContext(ctx, query, request.UUID, request.SenderUUID, request.ReceiverUUID, request.Status).
		Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return util.LogError("[FriendRepo] ошибка вставки заявки", err)
	}
	return nil
}

// FindBetween : заявка в любом направлении
func (r *FriendRepository) FindBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) (*model.FriendRequest, error) {
	query := `
		SELECT ` + friendRequestColumns + `
		FROM friend_requests
		WHERE (sender_uuid = $1 AND receiver_uuid = $2) OR (sender_uuid = $2 AND receiver_uuid = $1)
		LIMIT 1
	`
	var request model.FriendRequest
	err := sqlx.GetContext(ctx, exec, &request, query, first, second)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[FriendRepo] не удалось найти заявку", err)
	}
	return &request, nil
}

// FindPending : ожидающая заявка, адресованная receiverUUID
func (r *FriendRepository) FindPending(ctx context.Context, exec sqlx.ExtContext, uuid, receiverUUID string) (*model.FriendRequest, error) {
	query := `SELECT ` + friendRequestColumns + ` FROM friend_requests WHERE uuid = $1 AND receiver_uuid = $2 AND status = $3`
	var request model.FriendRequest
	err := sqlx.GetContext(ctx, exec, &request, query, uuid, receiverUUID, model.FriendRequestPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("заявка не найдена", err)
	}
	if err != nil {
		return nil, util.LogError("[FriendRepo] не удалось найти заявку", err)
	}
	return &request, nil
}

func (r *FriendRepository) ListPending(ctx context.Context, exec sqlx.ExtContext, receiverUUID string) ([]*model.FriendRequest, error) {
	query := `SELECT ` + friendRequestColumns + ` FROM friend_requests WHERE receiver_uuid = $1 AND status = $2 ORDER BY created_at DESC`
	var requests []*model.FriendRequest
	if err := sqlx.SelectContext(ctx, exec, &requests, query, receiverUUID, model.FriendRequestPending); err != nil {
		return nil, util.LogError("[FriendRepo] не удалось получить заявки", err)
	}
	return requests, nil
}

func (r *FriendRepository) MarkAccepted(ctx context.Context, exec sqlx.ExtContext, uuid string, at time.Time) error {
	query := `UPDATE friend_requests SET status = $2, accepted_at = $3, updated_at = $3 WHERE uuid = $1 AND status = $4`
	return execAffecting(ctx, exec, "[FriendRepo] не удалось принять заявку", "заявка не найдена",
		query, uuid, model.FriendRequestAccepted, at, model.FriendRequestPending)
}

func (r *FriendRepository) Delete(ctx context.Context, exec sqlx.ExtContext, uuid string) error {
	return execAffecting(ctx, exec, "[FriendRepo] не удалось удалить заявку", "заявка не найдена",
		`DELETE FROM friend_requests WHERE uuid = $1`, uuid)
}

func (r *FriendRepository) DeleteBetween(ctx context.Context, exec sqlx.ExtContext, first, second string) error {
	query := `
		DELETE FROM friend_requests
		WHERE (sender_uuid = $1 AND receiver_uuid = $2) OR (sender_uuid = $2 AND receiver_uuid = $1)
	`
	if _, err := exec.ExecContext(ctx, query, first, second); err != nil {
		return util.LogError("[FriendRepo] не удалось удалить заявки", err)
	}
	return nil
}

func (r *FriendRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	return beginTX(ctx, r.Database)
}
