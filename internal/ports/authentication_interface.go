package ports

import (
	"context"
	"time"

	"social-app/internal/model"
	"social-app/internal/security"
)

type AuthenticationService interface {
	Signup(ctx context.Context, firstName, lastName, email, password string) (*model.User, error)
	ConfirmEmail(ctx context.Context, email, otp string) error
	ResendConfirmEmail(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*model.TokensPair, error)
	Refresh(ctx context.Context, session *security.Session) (*model.TokensPair, error)
	Logout(ctx context.Context, session *security.Session, flag model.LogoutFlag) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, password string) error
}

// TokenIssuer : выпуск пары токенов без побочных эффектов
type TokenIssuer interface {
	IssueCredentialPair(user *model.User) (*model.TokensPair, *security.Claims, error)
	RefreshTTL() time.Duration
}

type CredentialHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

// Mailer : доставка одноразовых кодов
type Mailer interface {
	SendConfirmEmail(ctx context.Context, user *model.User, otp string) error
	SendResetPassword(ctx context.Context, user *model.User, otp string) error
}
