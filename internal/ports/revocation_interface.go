package ports

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

// RevokedTokenRepository : SQL слой отозванных jti
type RevokedTokenRepository interface {
	Insert(ctx context.Context, exec sqlx.ExtContext, token *model.RevokedToken) error
	// FindActive возвращает nil, nil если записи нет или она просрочена
	FindActive(ctx context.Context, exec sqlx.ExtContext, jti string, now time.Time) (*model.RevokedToken, error)
	DeleteExpired(ctx context.Context, exec sqlx.ExtContext, now time.Time) (int64, error)
}

// RevocationCache : Redis слой, хранит только отозванные jti
type RevocationCache interface {
	MarkRevoked(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RevocationStore interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, token *model.RevokedToken) error
	Sweep(ctx context.Context) (int64, error)
}
