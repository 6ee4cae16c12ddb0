package model

import "time"

// TokenKind : access или refresh
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// LogoutFlag : only завершает текущую сессию, all завершает все сессии пользователя
type LogoutFlag string

const (
	LogoutOnly LogoutFlag = "only"
	LogoutAll  LogoutFlag = "all"
)

func (f LogoutFlag) Valid() bool {
	return f == LogoutOnly || f == LogoutAll
}

// RevokedToken : отозванный jti, живёт до истечения refresh токена
type RevokedToken struct {
	JTI       string    `db:"jti" json:"jti"`
	UserUUID  string    `db:"user_uuid" json:"user_uuid"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"accessToken"`

	// Refresh токен (для получения новой пары)
	// example: eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refreshToken"`

	// Префикс для заголовка Authorization
	// example: Bearer
	TokenType string `json:"tokenType"`
}
