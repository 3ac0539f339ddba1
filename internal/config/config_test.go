package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
database:
  host: db.local
  port: 5432
  user: app
  password: secret
  database: flavorfi
rabbitmq:
  host: mq.local
  port: 5672
  user: guest
  password: guest
auth:
  jwt_secret: testing-secret
  token_ttl_hours: 12
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, "mq.local", cfg.RabbitMQ.Host)
	assert.Equal(t, "testing-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 12, cfg.Auth.TokenTTLHours)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: testing-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 24, cfg.Auth.TokenTTLHours)
}

func TestLoadSecretFromEnv(t *testing.T) {
	t.Setenv("FLAVORFI_JWT_SECRET", "env-secret")

	path := writeConfig(t, `
auth:
  jwt_secret: file-secret
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadMissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
}
