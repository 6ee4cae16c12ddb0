package security

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"social-app/internal/model"
)

// IdentityStore : чтение пользователя, замороженные включаются явно
type IdentityStore interface {
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string, includeFrozen bool) (*model.User, error)
}

// RevocationChecker : проверка jti в хранилище отозванных токенов
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Resolver : то, что нужно middleware и websocket шлюзу
type Resolver interface {
	ResolveSession(ctx context.Context, header string, kind model.TokenKind, opts SessionOptions) (*Session, error)
}

type SessionOptions struct {
	// AllowFrozen пропускает замороженных пользователей, например для разморозки
	AllowFrozen bool
}

// Session : пользователь и проверенная нагрузка токена
type Session struct {
	User      *model.User
	Claims    *Claims
	TokenType string
}

type SessionResolver struct {
	tokens      *JWTService
	revocations RevocationChecker
	users       IdentityStore
	db          sqlx.ExtContext
}

func NewSessionResolver(tokens *JWTService, revocations RevocationChecker, users IdentityStore, db sqlx.ExtContext) *SessionResolver {
	return &SessionResolver{
		tokens:      tokens,
		revocations: revocations,
		users:       users,
		db:          db,
	}
}

// ResolveSession : проверяет заголовок "<TokenType> <token>" и возвращает живого пользователя.
// Проверки идут строго по порядку, первая неудачная прерывает разбор:
//  1. формат заголовка
//  2. префикс выбирает уровень секретов
//  3. подпись и срок действия секретом нужного типа
//  4. наличие id и iat
//  5. jti не отозван
//  6. пользователь существует
//  7. iat не раньше change_credentials_time
//  8. пользователь не заморожен, если это не разрешено opts
func (r *SessionResolver) ResolveSession(ctx context.Context, header string, kind model.TokenKind, opts SessionOptions) (*Session, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, newAuthError(KindMalformed, "неверный формат заголовка Authorization", nil)
	}
	label, token := parts[0], parts[1]

	claims, err := r.tokens.ParseToken(label, token, kind)
	if err != nil {
		return nil, err
	}

	if claims.ID == "" {
		return nil, newAuthError(KindInvalid, "invalid token payload", nil)
	}

	revoked, err := r.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("[SessionResolver] ошибка проверки отзыва токена: %w", err)
	}
	if revoked {
		return nil, newAuthError(KindRevoked, "токен отозван", nil)
	}

	user, err := r.users.FindByUUID(ctx, r.db, claims.UserID, true)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[SessionResolver] ошибка получения пользователя: %w", err)
	}
	if user == nil {
		return nil, newAuthError(KindIdentityNotFound, "пользователь не найден", err)
	}

	if user.ChangeCredentialsTime != nil && issuedBefore(claims.IssuedAt.Time, *user.ChangeCredentialsTime) {
		return nil, newAuthError(KindStale, "токен выдан до смены учётных данных", nil)
	}

	if user.IsFrozen() && !opts.AllowFrozen {
		return nil, newAuthError(KindFrozen, "аккаунт заморожен", nil)
	}

	return &Session{User: user, Claims: claims, TokenType: label}, nil
}

// issuedBefore : iat приходит в JSON дробным числом секунд, разбор через float64
// может занизить его на одну миллисекунду, поэтому сравнение идёт с этим допуском
func issuedBefore(issuedAt, changedAt time.Time) bool {
	return changedAt.Truncate(time.Millisecond).After(issuedAt.Add(time.Millisecond))
}

// Authorize : роль пользователя должна входить в roles, иерархии ролей нет
func Authorize(session *Session, roles ...model.Role) error {
	for _, role := range roles {
		if session.User.Role == role {
			return nil
		}
	}
	return newAuthError(KindForbidden, "недостаточно прав", nil)
}
