package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const EnvironmentProduction = "production"

type AppConfig struct {
	Server         ServerConfig    `yaml:"server"`
	DatabaseConfig DatabaseConfig  `yaml:"databaseConfig"`
	RedisConfig    RedisConfig     `yaml:"redisConfig"`
	S3Config       S3Config        `yaml:"s3Config"`
	JWT            JWTConfig       `yaml:"jwt"`
	Security       SecurityConfig  `yaml:"security"`
	TTL            TTL             `yaml:"TTL"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Logger         LoggerConfig    `yaml:"logger"`
	Mailer         MailerConfig    `yaml:"mailer"`
}

func LoadConfig(path string) (*AppConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "development"
	}
	if c.Security.SaltRounds == 0 {
		c.Security.SaltRounds = 10
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Mailer.Timeout == "" {
		c.Mailer.Timeout = "5s"
	}
}

// Validate проверяет, что заданы все четыре секрета и они не совпадают между уровнями
func (c *AppConfig) Validate() error {
	secrets := []string{c.JWT.User.Access, c.JWT.User.Refresh, c.JWT.Admin.Access, c.JWT.Admin.Refresh}
	for _, secret := range secrets {
		if secret == "" {
			return errors.New("в конфигурации jwt должны быть заданы все секреты (user/admin, access/refresh)")
		}
	}
	if c.JWT.User.Access == c.JWT.Admin.Access || c.JWT.User.Refresh == c.JWT.Admin.Refresh {
		return errors.New("секреты user и admin не должны совпадать")
	}
	if c.DatabaseConfig.DSN == "" {
		return errors.New("не задан dsn базы данных")
	}
	return nil
}

func (c *AppConfig) IsProduction() bool {
	return c.Server.Environment == EnvironmentProduction
}

func (c *AppConfig) ShutdownTimeout() time.Duration {
	return parseDurationOr(c.Server.ShutdownTimeout, 5*time.Second)
}

func (c *AppConfig) PresignedURLTTL() time.Duration {
	return parseDurationOr(c.TTL.PresignedURL, 15*time.Minute)
}

func (c *AppConfig) RevokeSweepInterval() time.Duration {
	return parseDurationOr(c.TTL.RevokeSweep, time.Hour)
}

func (c *AppConfig) OTPTTL() time.Duration {
	return parseDurationOr(c.Security.OTPTTL, 10*time.Minute)
}

func SetupServer(serverAddress string) (*http.Server, *chi.Mux) {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              serverAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, router
}

func SetupDatabase(dsn string) (*Database, error) {
	return NewDatabaseConnection("postgres", dsn)
}

func SetupRedis(cfg *RedisConfig) (*RedisClient, error) {
	return NewRedisClient(cfg)
}

// SetupLogger настраивает глобальный zerolog логгер по уровню и файлу из конфигурации
func SetupLogger(cfg *LoggerConfig) error {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	output := os.Stdout
	if cfg.OutputPath != "" {
		file, err := os.OpenFile(cfg.OutputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("не удалось открыть файл логов: %w", err)
		}
		output = file
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339})
	return nil
}
