package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"social-app/config"
	"social-app/internal/model"
)

const (
	EventConfirmEmail  = "confirm_email"
	EventResetPassword = "reset_password"
)

// MailPayload : тело запроса к сервису рассылки
type MailPayload struct {
	Event  string    `json:"event"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	OTP    string    `json:"otp"`
	SentAt time.Time `json:"sent_at"`
}

// WebhookMailer : отправляет одноразовые коды POST запросом на внешний webhook
type WebhookMailer struct {
	url    string
	client *http.Client
}

func NewWebhookMailer(url string, timeout time.Duration) *WebhookMailer {
	return &WebhookMailer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (m *WebhookMailer) SendConfirmEmail(ctx context.Context, user *model.User, otp string) error {
	return m.send(ctx, EventConfirmEmail, user, otp)
}

func (m *WebhookMailer) SendResetPassword(ctx context.Context, user *model.User, otp string) error {
	return m.send(ctx, EventResetPassword, user, otp)
}

func (m *WebhookMailer) send(ctx context.Context, event string, user *model.User, otp string) error {
	body, err := json.Marshal(MailPayload{
		Event:  event,
		Email:  user.Email,
		Name:   user.FullName(),
		OTP:    otp,
		SentAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("[Mailer] ошибка сериализации письма: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("[Mailer] ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("[Mailer] ошибка отправки письма: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("[Mailer] webhook вернул статус %d", resp.StatusCode)
	}
	return nil
}

// LogMailer : пишет коды в лог, для локального запуска
type LogMailer struct{}

func (LogMailer) SendConfirmEmail(_ context.Context, user *model.User, otp string) error {
	log.Info().Str("email", user.Email).Str("otp", otp).Msg("[Mailer] код подтверждения почты")
	return nil
}

func (LogMailer) SendResetPassword(_ context.Context, user *model.User, otp string) error {
	log.Info().Str("email", user.Email).Str("otp", otp).Msg("[Mailer] код сброса пароля")
	return nil
}

// Mailer : интерфейс, который возвращает NewMailer
type Mailer interface {
	SendConfirmEmail(ctx context.Context, user *model.User, otp string) error
	SendResetPassword(ctx context.Context, user *model.User, otp string) error
}

// NewMailer : webhook, если задан url, иначе запись в лог
func NewMailer(cfg *config.MailerConfig) Mailer {
	if cfg.WebhookURL == "" {
		log.Warn().Msg("[Mailer] webhook_url не задан, коды будут только в логах")
		return LogMailer{}
	}
	return NewWebhookMailer(cfg.WebhookURL, cfg.RequestTimeout())
}
