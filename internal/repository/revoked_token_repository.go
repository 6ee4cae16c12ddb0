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

type RevokedTokenRepository struct {
	*config.Database
}

func NewRevokedTokenRepository(database *config.Database) *RevokedTokenRepository {
	return &RevokedTokenRepository{database}
}

// Insert : повторный отзыв того же jti ничего не меняет
func (r *RevokedTokenRepository) Insert(ctx context.Context, exec sqlx.ExtContext, token *model.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (jti, user_uuid, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING
	`
	if _, err := exec.ExecContext(ctx, query, token.JTI, token.UserUUID, token.ExpiresAt); err != nil {
		return util.LogError("[RevokedTokenRepo] не удалось сохранить отозванный токен", err)
	}
	return nil
}

// FindActive : запись, срок которой ещё не истёк
func (r *RevokedTokenRepository) FindActive(ctx context.Context, exec sqlx.ExtContext, jti string, now time.Time) (*model.RevokedToken, error) {
	query := `SELECT jti, user_uuid, expires_at, created_at FROM revoked_tokens WHERE jti = $1 AND expires_at > $2`
	var token model.RevokedToken
	err := sqlx.GetContext(ctx, exec, &token, query, jti, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[RevokedTokenRepo] не удалось проверить отзыв токена", err)
	}
	return &token, nil
}

func (r *RevokedTokenRepository) DeleteExpired(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error) {
	result, err := exec.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, util.LogError("[RevokedTokenRepo] не удалось удалить просроченные записи", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, util.LogError("[RevokedTokenRepo] не удалось удалить просроченные записи", err)
	}
	return affected, nil
}
