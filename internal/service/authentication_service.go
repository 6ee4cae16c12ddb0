package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"social-app/config"
	"social-app/internal/metrics"
	"social-app/internal/model"
	"social-app/internal/ports"
	"social-app/internal/security"
	"social-app/internal/util"
)

const otpLength = 6

var errInvalidCredentials = util.NewBadRequest("неверная почта или пароль")

type AuthenticationService struct {
	userRepository ports.UserRepository
	revocations    ports.RevocationStore
	tokens         ports.TokenIssuer
	hasher         ports.CredentialHasher
	mailer         ports.Mailer
	db             sqlx.ExtContext
	otpTTL         time.Duration
	now            func() time.Time
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	revocations ports.RevocationStore,
	tokens ports.TokenIssuer,
	hasher ports.CredentialHasher,
	mailer ports.Mailer,
	db *config.Database,
	otpTTL time.Duration,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository: userRepository,
		revocations:    revocations,
		tokens:         tokens,
		hasher:         hasher,
		mailer:         mailer,
		db:             db,
		otpTTL:         otpTTL,
		now:            time.Now,
	}
}

// Signup : создаёт system-пользователя и отправляет код подтверждения почты
func (s *AuthenticationService) Signup(ctx context.Context, firstName, lastName, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if firstName == "" || email == "" {
		return nil, util.NewBadRequest("имя и почта обязательны")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, util.LogError("[AuthService] ошибка хэширования пароля", err)
	}

	otp, otpHash, err := s.newOTP()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().UTC().Add(s.otpTTL)

	user := &model.User{
		UUID:            uuid.NewString(),
		FirstName:       firstName,
		LastName:        lastName,
		Email:           email,
		Role:            model.RoleUser,
		Provider:        model.ProviderSystem,
		PasswordHash:    passwordHash,
		ConfirmEmailOTP: &otpHash,
		OTPExpiresAt:    &expiresAt,
	}
	if err := user.Validate(); err != nil {
		return nil, util.LogError("[AuthService] некорректный пользователь", err)
	}

	created, err := s.userRepository.CreateUser(ctx, s.db, user)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка создания пользователя: %w", err)
	}

	// пользователь уже создан, код можно запросить повторно через ResendConfirmEmail
	if err := s.mailer.SendConfirmEmail(ctx, created, otp); err != nil {
		log.Warn().Err(err).Str("user", created.UUID).Msg("[AuthService] не удалось отправить код подтверждения")
	}

	log.Info().Str("user", created.UUID).Msg("[AuthService] пользователь зарегистрирован")
	return created, nil
}

func (s *AuthenticationService) ConfirmEmail(ctx context.Context, email, otp string) error {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email), false)
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}
	if user.ConfirmedAt != nil {
		return util.NewConflict("почта уже подтверждена")
	}
	if !s.checkOTP(user.ConfirmEmailOTP, user.OTPExpiresAt, otp) {
		return util.NewBadRequest("неверный или просроченный код")
	}

	if err := s.userRepository.ConfirmEmail(ctx, s.db, user.UUID, s.now().UTC()); err != nil {
		return fmt.Errorf("[AuthService] ошибка подтверждения почты: %w", err)
	}
	return nil
}

// ResendConfirmEmail : выпускает новый код подтверждения, прежний перестаёт действовать
func (s *AuthenticationService) ResendConfirmEmail(ctx context.Context, email string) error {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email), false)
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}
	if user.Provider != model.ProviderSystem {
		return util.NewBadRequest("подтверждение почты недоступно для этого аккаунта")
	}
	if user.ConfirmedAt != nil {
		return util.NewConflict("почта уже подтверждена")
	}

	otp, otpHash, err := s.newOTP()
	if err != nil {
		return err
	}
	if err := s.userRepository.SetConfirmEmailOTP(ctx, s.db, user.UUID, otpHash, s.now().UTC().Add(s.otpTTL)); err != nil {
		return fmt.Errorf("[AuthService] ошибка сохранения кода: %w", err)
	}

	if err := s.mailer.SendConfirmEmail(ctx, user, otp); err != nil {
		return util.LogError("[AuthService] не удалось отправить код подтверждения", err)
	}
	return nil
}

// Login : выдаёт пару токенов system-пользователю с подтверждённой почтой
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email), true)
	if util.IsKind(err, util.KindNotFound) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}

	if user.Provider != model.ProviderSystem || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}
	if user.ConfirmedAt == nil {
		return nil, util.NewBadRequest("сначала подтвердите почту")
	}
	// самозамороженный пользователь входит, чтобы разморозить аккаунт, остальные маршруты его не пропустят
	if user.IsFrozen() && !user.IsSelfFrozen() {
		return nil, util.NewForbidden("аккаунт заморожен")
	}

	return s.issue(user)
}

// Refresh : отзывает jti предъявленного refresh токена и выдаёт новую пару
func (s *AuthenticationService) Refresh(ctx context.Context, session *security.Session) (*model.TokensPair, error) {
	if err := s.revokeSession(ctx, session); err != nil {
		return nil, err
	}
	return s.issue(session.User)
}

// Logout : only отзывает текущий jti, all инвалидирует все токены пользователя
func (s *AuthenticationService) Logout(ctx context.Context, session *security.Session, flag model.LogoutFlag) error {
	switch flag {
	case model.LogoutOnly:
		if err := s.revokeSession(ctx, session); err != nil {
			return err
		}
	case model.LogoutAll:
		if err := s.userRepository.UpdateChangeCredentialsTime(ctx, s.db, session.User.UUID, s.now().UTC()); err != nil {
			return fmt.Errorf("[AuthService] ошибка выхода со всех устройств: %w", err)
		}
	default:
		return util.NewBadRequest("flag должен быть only или all")
	}

	metrics.LogoutsTotal.WithLabelValues(string(flag)).Inc()
	return nil
}

func (s *AuthenticationService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email), false)
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}
	if user.Provider != model.ProviderSystem || user.ConfirmedAt == nil {
		return util.NewBadRequest("сброс пароля недоступен для этого аккаунта")
	}

	otp, otpHash, err := s.newOTP()
	if err != nil {
		return err
	}
	if err := s.userRepository.SetResetPasswordOTP(ctx, s.db, user.UUID, otpHash, s.now().UTC().Add(s.otpTTL)); err != nil {
		return fmt.Errorf("[AuthService] ошибка сохранения кода: %w", err)
	}

	if err := s.mailer.SendResetPassword(ctx, user, otp); err != nil {
		return util.LogError("[AuthService] не удалось отправить код сброса", err)
	}
	return nil
}

// ResetPassword : меняет пароль по коду, все выданные токены становятся устаревшими
func (s *AuthenticationService) ResetPassword(ctx context.Context, email, otp, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email), false)
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка поиска пользователя: %w", err)
	}
	if !s.checkOTP(user.ResetPasswordOTP, user.OTPExpiresAt, otp) {
		return util.NewBadRequest("неверный или просроченный код")
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return util.LogError("[AuthService] ошибка хэширования пароля", err)
	}
	if err := s.userRepository.ResetPassword(ctx, s.db, user.UUID, passwordHash, s.now().UTC()); err != nil {
		return fmt.Errorf("[AuthService] ошибка смены пароля: %w", err)
	}
	return nil
}

func (s *AuthenticationService) issue(user *model.User) (*model.TokensPair, error) {
	tokens, _, err := s.tokens.IssueCredentialPair(user)
	if err != nil {
		return nil, fmt.Errorf("[AuthService] ошибка генерации токенов: %w", err)
	}

	if tier, err := security.TierForRole(user.Role); err == nil {
		metrics.TokensIssuedTotal.WithLabelValues(string(tier)).Inc()
	}
	return tokens, nil
}

// revokeSession : запись живёт до истечения refresh токена той же пары
func (s *AuthenticationService) revokeSession(ctx context.Context, session *security.Session) error {
	if session == nil || session.Claims == nil || session.Claims.IssuedAt == nil {
		return errors.New("[AuthService] сессия без iat")
	}

	err := s.revocations.Revoke(ctx, &model.RevokedToken{
		JTI:       session.Claims.ID,
		UserUUID:  session.User.UUID,
		ExpiresAt: session.Claims.IssuedAt.Time.Add(s.tokens.RefreshTTL()),
	})
	if err != nil {
		return fmt.Errorf("[AuthService] ошибка отзыва токена: %w", err)
	}
	return nil
}

func (s *AuthenticationService) newOTP() (string, string, error) {
	otp, err := util.GenerateOTP(otpLength)
	if err != nil {
		return "", "", util.LogError("[AuthService] ошибка генерации кода", err)
	}
	otpHash, err := s.hasher.Hash(otp)
	if err != nil {
		return "", "", util.LogError("[AuthService] ошибка хэширования кода", err)
	}
	return otp, otpHash, nil
}

func (s *AuthenticationService) checkOTP(hashed *string, expiresAt *time.Time, otp string) bool {
	if hashed == nil || expiresAt == nil || otp == "" {
		return false
	}
	if !s.now().UTC().Before(*expiresAt) {
		return false
	}
	return s.hasher.Verify(otp, *hashed)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
