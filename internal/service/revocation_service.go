package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"social-app/config"
	"social-app/internal/metrics"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/util"
)

// RevocationService : отозванные jti. БД источник истины, Redis хранит только положительные ответы
type RevocationService struct {
	repository ports.RevokedTokenRepository
	cache      ports.RevocationCache
	db         sqlx.ExtContext
	now        func() time.Time
}

func NewRevocationService(repository ports.RevokedTokenRepository, cache ports.RevocationCache, db *config.Database) *RevocationService {
	return &RevocationService{
		repository: repository,
		cache:      cache,
		db:         db,
		now:        time.Now,
	}
}

// IsRevoked : просроченная запись считается отсутствующей
func (s *RevocationService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	cached, err := s.cache.IsRevoked(ctx, jti)
	if err != nil {
		log.Warn().Err(err).Str("jti", jti).Msg("[RevocationService] кэш недоступен, проверка по БД")
	} else if cached {
		return true, nil
	}

	now := s.now().UTC()
	token, err := s.repository.FindActive(ctx, s.db, jti, now)
	if err != nil {
		return false, util.LogError("[RevocationService] не удалось проверить отзыв токена", err)
	}
	if token == nil {
		return false, nil
	}

	if err := s.cache.MarkRevoked(ctx, jti, token.ExpiresAt.Sub(now)); err != nil {
		log.Warn().Err(err).Str("jti", jti).Msg("[RevocationService] не удалось обновить кэш")
	}
	return true, nil
}

// Revoke : запись в БД обязательна, кэш обновляется по возможности
func (s *RevocationService) Revoke(ctx context.Context, token *model.RevokedToken) error {
	if err := s.repository.Insert(ctx, s.db, token); err != nil {
		return util.LogError("[RevocationService] не удалось отозвать токен", err)
	}

	if err := s.cache.MarkRevoked(ctx, token.JTI, token.ExpiresAt.Sub(s.now().UTC())); err != nil {
		log.Warn().Err(err).Str("jti", token.JTI).Msg("[RevocationService] не удалось обновить кэш")
	}
	return nil
}

// Sweep : удаляет записи, срок которых истёк
func (s *RevocationService) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.repository.DeleteExpired(ctx, s.db, s.now().UTC())
	if err != nil {
		return 0, util.LogError("[RevocationService] не удалось очистить отозванные токены", err)
	}
	metrics.RevokedTokensSweptTotal.Add(float64(deleted))
	return deleted, nil
}
