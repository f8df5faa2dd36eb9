package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name       string
		configFile string
		validate   func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 15
database:
  host: localhost
  port: 5433
  user: marketapi
  password: secret
  dbname: market
  sslmode: require
  conn_max_lifetime: "5m"
redis:
  addr: "redis.internal:6379"
  db: 2
nats:
  url: "nats://nats.internal:4222"
  stream_name: "USER_EVENTS"
webhook:
  signing_secret: "whsec_dGVzdC1zZWNyZXQ="
  tolerance: "2m"
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 15, cfg.Server.ReadTimeout)
				assert.Equal(t, 5433, cfg.Database.Port)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
				assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
				assert.Equal(t, 2, cfg.Redis.DB)
				assert.Equal(t, "nats://nats.internal:4222", cfg.NATS.URL)
				assert.Equal(t, "USER_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, "whsec_dGVzdC1zZWNyZXQ=", cfg.Webhook.SigningSecret)
				assert.Equal(t, 2*time.Minute, cfg.Webhook.Tolerance)
			},
		},
		{
			name: "defaults applied",
			configFile: `
database:
  host: localhost
  user: marketapi
  password: secret
  dbname: market
`,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.False(t, cfg.Debug)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 120, cfg.Server.IdleTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
				assert.Equal(t, "IDENTITY_EVENTS", cfg.NATS.StreamName)
				assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
				assert.Equal(t, 5*time.Minute, cfg.Webhook.Tolerance)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.configFile)
			cfg, err := LoadAPIConfig(path, t.TempDir())
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "marketapi",
		Password: "secret",
		DBName:   "market",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=marketapi password=secret dbname=market sslmode=disable",
		cfg.DSN())
}
