package repository

import (
	"context"
	"fmt"
	"time"

	"social-app/config"
	"social-app/internal/util"
)

// CacheRepository : Redis кэш отозванных jti, ключ живёт до истечения токена
type CacheRepository struct {
	client *config.RedisClient
}

func NewCacheRepository(rdb *config.RedisClient) *CacheRepository {
	return &CacheRepository{rdb}
}

func (r *CacheRepository) MarkRevoked(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	cmd := r.client.Client.Set(ctx, r.key(jti), 1, ttl)
	if err := cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}
	return nil
}

// IsRevoked : отсутствие ключа не значит, что токен действителен, источник истины в БД
func (r *CacheRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, util.LogError("ошибка чтения из Redis", err)
	}
	return n > 0, nil
}

func (r *CacheRepository) key(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}
