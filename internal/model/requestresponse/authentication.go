package requestresponse

import "social-app/internal/model"

// SignupRequest : тело запроса регистрации
type SignupRequest struct {
	FirstName       string `json:"first_name" example:"Ivan"`
	LastName        string `json:"last_name" example:"Petrov"`
	Email           string `json:"email" example:"ivan@example.com"`
	Password        string `json:"password" example:"P@ssw0rd!"`
	ConfirmPassword string `json:"confirm_password" example:"P@ssw0rd!"`
}

// SignupResponse : успешная регистрация, код подтверждения отправлен на почту
type SignupResponse struct {
	Response struct {
		UUID  string `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
		Email string `json:"email" example:"ivan@example.com"`
	} `json:"response"`
}

// ConfirmEmailRequest : подтверждение почты одноразовым кодом
type ConfirmEmailRequest struct {
	Email string `json:"email" example:"ivan@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

// ResendConfirmEmailRequest : повторная отправка кода подтверждения
type ResendConfirmEmailRequest struct {
	Email string `json:"email" example:"ivan@example.com"`
}

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"ivan@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// TokensResponse : пара токенов и префикс для заголовка Authorization
type TokensResponse struct {
	Response model.TokensPair `json:"response"`
}

// LogoutRequest : flag only завершает текущую сессию, all завершает все
type LogoutRequest struct {
	Flag model.LogoutFlag `json:"flag" example:"only"`
}

// ForgotPasswordRequest : запрос кода для сброса пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"ivan@example.com"`
}

// ResetPasswordRequest : сброс пароля по коду из письма
type ResetPasswordRequest struct {
	Email           string `json:"email" example:"ivan@example.com"`
	OTP             string `json:"otp" example:"123456"`
	Password        string `json:"password" example:"N3wP@ssw0rd!"`
	ConfirmPassword string `json:"confirm_password" example:"N3wP@ssw0rd!"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID string     `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Role     model.Role `json:"role" example:"user"`
	} `json:"response"`
}

// MessageResponse : ответ без данных
type MessageResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}

// ErrorResponse : стандартная структура ошибки, stack заполняется только вне production
type ErrorResponse struct {
	Error   string   `json:"error" example:"Bad Request"`
	Message string   `json:"message" example:"некорректный JSON"`
	Code    int      `json:"code" example:"400"`
	Stack   []string `json:"stack,omitempty"`
}
