package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
server:
  allowed_origins:
    - "https://app.example.com"
databaseConfig:
  dsn: "postgres://localhost/social"
jwt:
  user:
    access: ua
    refresh: ur
  admin:
    access: aa
    refresh: ar
  access_token_ttl: 30m
TTL:
  revoke_sweep: 10m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10, cfg.Security.SaltRounds)
	assert.Equal(t, 5.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.JWT.RefreshTTL())
	assert.Equal(t, 10*time.Minute, cfg.RevokeSweepInterval())
	assert.Equal(t, 15*time.Minute, cfg.PresignedURLTTL())
	assert.Equal(t, 10*time.Minute, cfg.OTPTTL())
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout())
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing secret",
			body: `
databaseConfig:
  dsn: "postgres://localhost/social"
jwt:
  user:
    access: ua
    refresh: ur
  admin:
    access: aa
`,
		},
		{
			name: "shared secret between tiers",
			body: `
databaseConfig:
  dsn: "postgres://localhost/social"
jwt:
  user:
    access: same
    refresh: ur
  admin:
    access: same
    refresh: ar
`,
		},
		{
			name: "missing dsn",
			body: `
jwt:
  user:
    access: ua
    refresh: ur
  admin:
    access: aa
    refresh: ar
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseDurationOr(t *testing.T) {
	assert.Equal(t, time.Minute, parseDurationOr("", time.Minute))
	assert.Equal(t, time.Minute, parseDurationOr("garbage", time.Minute))
	assert.Equal(t, time.Minute, parseDurationOr("-5s", time.Minute))
	assert.Equal(t, 2*time.Hour, parseDurationOr("2h", time.Minute))
}
