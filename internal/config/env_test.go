package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecretKey(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("TMDB_API_BEARER", "bearer")

	_, err := Load()
	require.ErrorIs(t, err, ErrSecretKeyMissing)
}

func TestLoad_RequiresTMDBCredentials(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TMDB_API_BEARER", "")
	t.Setenv("TMDB_API_KEY", "")

	_, err := Load()
	require.ErrorIs(t, err, ErrTMDBAuthMissing)
}

func TestLoad_DefaultsToSQLite(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "./filmes.db", cfg.Database.URL)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, "pt-BR", cfg.TMDB.Language)
	assert.False(t, cfg.Google.Enabled())
}

func TestLoad_InfersPostgresFromURL(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DATABASE_URL", "postgres://postgres:pw@localhost:5432/filmes")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
port: 8080
secret_key: from-file
tmdb:
  api_key: file-key
  timeout: 3s
session:
  ttl: 2h
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SECRET_KEY", "")
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_API_BEARER", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, 3*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("PORT", "eighty")
	t.Setenv("SESSION_TTL", "forever")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "SESSION_TTL")
}

func TestLoad_CookieSecureOverride(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("TMDB_API_KEY", "key")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.NotNil(t, cfg.Session.CookieSecure)
	assert.True(t, *cfg.Session.CookieSecure)
}
