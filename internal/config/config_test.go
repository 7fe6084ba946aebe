package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	// untouched defaults
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "1h", cfg.JWT.AccessTokenExpiration)
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: \"3000\"\ndatabase:\n  dbname: courses\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "courses", cfg.Database.DBName)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "enrollment"

	assert.Equal(t,
		"postgres://app:pw@localhost:5432/enrollment?sslmode=disable",
		cfg.GetPostgresConnectionString())
}
