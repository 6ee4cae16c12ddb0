package config

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ServerConfig struct {
	Addr            string `yaml:"addr"`
	Environment     string `yaml:"environment"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
	// AllowedOrigins : origin браузерных клиентов websocket, пусто = только тот же хост
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Client   *s3.Client
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Local    bool   `yaml:"local"`
}

// SecretPair : пара секретов для подписи access и refresh токенов одного уровня доступа
type SecretPair struct {
	Access  string `yaml:"access"`
	Refresh string `yaml:"refresh"`
}

type JWTConfig struct {
	User            SecretPair `yaml:"user"`
	Admin           SecretPair `yaml:"admin"`
	AccessTokenTTL  string     `yaml:"access_token_ttl"`
	RefreshTokenTTL string     `yaml:"refresh_token_ttl"`
}

// AccessTTL возвращает время жизни access токена, по умолчанию один час
func (c *JWTConfig) AccessTTL() time.Duration {
	return parseDurationOr(c.AccessTokenTTL, time.Hour)
}

// RefreshTTL возвращает время жизни refresh токена, по умолчанию две недели
func (c *JWTConfig) RefreshTTL() time.Duration {
	return parseDurationOr(c.RefreshTokenTTL, 14*24*time.Hour)
}

type SecurityConfig struct {
	SaltRounds int    `yaml:"salt_rounds"`
	OTPTTL     string `yaml:"otp_ttl"`
}

type TTL struct {
	PresignedURL string `yaml:"presigned_url"`
	RevokeSweep  string `yaml:"revoke_sweep"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type LoggerConfig struct {
	Level      string `yaml:"level"`
	OutputPath string `yaml:"output_path"`
}

// MailerConfig : webhook сервиса рассылки, без url письма только пишутся в лог
type MailerConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Timeout    string `yaml:"timeout"`
}

func (c *MailerConfig) RequestTimeout() time.Duration {
	return parseDurationOr(c.Timeout, 5*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
