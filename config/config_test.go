package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_PORT", "")
	t.Setenv("TOKEN_KEY", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()
	assert.Equal(t, "4001", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Empty(t, cfg.TokenKey)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9000")
	t.Setenv("TOKEN_KEY", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.TokenKey)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "two hours")
	t.Setenv("BCRYPT_COST", "ten")

	cfg := Load()
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestValidate(t *testing.T) {
	cfg := &Config{TokenKey: "k", StorageDriver: StorageMemory, TokenTTL: time.Hour}
	require.NoError(t, cfg.Validate())

	cfg.TokenKey = "  "
	assert.EqualError(t, cfg.Validate(), "TOKEN_KEY must be set")

	cfg.TokenKey = "k"
	cfg.StorageDriver = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.StorageDriver = StoragePostgres
	cfg.TokenTTL = 0
	assert.Error(t, cfg.Validate())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
