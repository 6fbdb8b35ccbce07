package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"innercloset/gatekeeper/internal/config"
)

const sampleConfig = `
server:
  mode: release
database:
  backend: memory
token:
  signing_key: "0123456789abcdef0123456789abcdef"
session:
  signing_key: "idp-secret"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "lt_access", cfg.Cookie.Name)
	require.Equal(t, 180*24*time.Hour, cfg.Token.TTL)
	require.Equal(t, 100*time.Millisecond, cfg.Invite.RedeemDelayMin)
	require.Equal(t, 200*time.Millisecond, cfg.Invite.RedeemDelayMax)
	require.True(t, cfg.CookieSecure())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TOKEN_ISSUER", "from-env")
	cfg, err := config.Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Token.Issuer)
}

func TestLoadRejectsShortSigningKey(t *testing.T) {
	_, err := config.Load(writeConfig(t, "token:\n  signing_key: short\n"))
	require.Error(t, err)
}

func TestCookieSecureExplicit(t *testing.T) {
	off := false
	cfg := &config.Config{Server: config.ServerConfig{Mode: "release"}, Cookie: config.CookieConfig{Secure: &off}}
	require.False(t, cfg.CookieSecure())
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Database: config.DatabaseConfig{Backend: "postgres"},
			Token:    config.TokenConfig{SigningKey: "0123456789abcdef0123456789abcdef", TTL: time.Hour},
			Session:  config.SessionConfig{SigningKey: "idp-secret"},
			Invite:   config.InviteConfig{RedeemDelayMin: 100 * time.Millisecond, RedeemDelayMax: 200 * time.Millisecond},
		}
	}
	require.NoError(t, valid().Validate())

	tests := map[string]func(*config.Config){
		"missing session key": func(c *config.Config) { c.Session.SigningKey = "" },
		"zero ttl":            func(c *config.Config) { c.Token.TTL = 0 },
		"inverted delay":      func(c *config.Config) { c.Invite.RedeemDelayMax = time.Millisecond },
		"unknown backend":     func(c *config.Config) { c.Database.Backend = "sqlite" },
		"unknown log level":   func(c *config.Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadSecretsFromEnvOnly(t *testing.T) {
	t.Setenv("TOKEN_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("SESSION_SIGNING_KEY", "idp-secret")
	t.Setenv("DATABASE_POSTGRES_PASSWORD", "pg-secret")
	t.Setenv("DATABASE_REDIS_PASSWORD", "redis-secret")

	cfg, err := config.Load(writeConfig(t, "database:\n  backend: memory\n"))
	require.NoError(t, err)
	require.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Token.SigningKey)
	require.Equal(t, "idp-secret", cfg.Session.SigningKey)
	require.Equal(t, "pg-secret", cfg.Database.Postgres.Password)
	require.Equal(t, "redis-secret", cfg.Database.Redis.Password)
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	logger, err := config.NewLogger(config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = config.NewLogger(config.LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = config.NewLogger(config.LogConfig{Level: "loud"})
	require.Error(t, err)
}
