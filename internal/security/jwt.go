package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"social-app/config"
	"social-app/internal/model"
	"social-app/internal/util"
)

// Claims : полезная нагрузка access и refresh токенов, jti общий для пары
type Claims struct {
	UserID string     `json:"id"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

// iat и exp сериализуются с миллисекундами, иначе выход со всех устройств
// не отличит токены, выданные в ту же секунду
func init() {
	jwt.TimePrecision = time.Millisecond
}

type JWTService struct {
	secrets    map[Tier]config.SecretPair
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		secrets:    secretsByTier(cfg),
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
		now:        time.Now,
	}
}

// WithClock : подменяет источник времени, используется в тестах
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

func (s *JWTService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueCredentialPair : выпускает access и refresh токены с общим jti.
// Секреты выбираются по уровню роли, побочных эффектов нет.
func (s *JWTService) IssueCredentialPair(user *model.User) (*model.TokensPair, *Claims, error) {
	tier, err := TierForRole(user.Role)
	if err != nil {
		return nil, nil, util.LogError("[JWTService] не удалось определить уровень доступа", err)
	}

	issuedAt := s.now()
	jti := uuid.NewString()

	accessToken, claims, err := s.sign(user, tier, model.TokenKindAccess, jti, issuedAt, s.accessTTL)
	if err != nil {
		return nil, nil, err
	}

	refreshToken, _, err := s.sign(user, tier, model.TokenKindRefresh, jti, issuedAt, s.refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tier.Label(),
	}, claims, nil
}

func (s *JWTService) sign(user *model.User, tier Tier, kind model.TokenKind, jti string, issuedAt time.Time, ttl time.Duration) (string, *Claims, error) {
	secret, err := secretFor(s.secrets, tier, kind)
	if err != nil {
		return "", nil, util.LogError("[JWTService] ошибка выбора секрета", err)
	}

	claims := &Claims{
		UserID: user.UUID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", nil, util.LogError("[JWTService] ошибка подписи токена", err)
	}
	return signed, claims, nil
}

// ParseToken : проверяет подпись и срок действия секретом уровня label для типа kind
func (s *JWTService) ParseToken(label, token string, kind model.TokenKind) (*Claims, error) {
	tier, ok := TierForLabel(label)
	if !ok {
		return nil, newAuthError(KindMalformed, "неизвестный тип токена", nil)
	}

	secret, err := secretFor(s.secrets, tier, kind)
	if err != nil {
		return nil, newAuthError(KindInvalid, "невалидный токен", err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, newAuthError(KindInvalid, "срок действия токена истёк", err)
		}
		return nil, newAuthError(KindInvalid, "невалидный токен", err)
	}

	if claims.UserID == "" || claims.IssuedAt == nil {
		return nil, newAuthError(KindInvalid, "invalid token payload", nil)
	}

	// роль в токене должна относиться к тому же уровню, что и префикс
	if claimedTier, err := TierForRole(claims.Role); err != nil || claimedTier != tier {
		return nil, newAuthError(KindInvalid, "invalid token payload", fmt.Errorf("роль %q не соответствует типу %q", claims.Role, label))
	}

	return claims, nil
}
