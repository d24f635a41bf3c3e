package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Database.URL = "postgres://localhost/copiersync"
	cfg.Auth.JWTSecret = "secret"
	cfg.Copier.AuthUsername = "user"
	cfg.Copier.AuthToken = "token"
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	t.Run("missing database URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.URL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing signing secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.Auth.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing copier credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Copier.AuthUsername = ""
		assert.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.Copier.AuthToken = ""
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("COPIER_BASE_URL", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.Server.OpsPort)
	assert.Equal(t, "https://www.trade-copier.com/webservice/v4", cfg.Copier.BaseURL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Copier.Timeout)
}

func TestLoad_DurationOverride(t *testing.T) {
	t.Setenv("TOKEN_TTL", "3600")
	t.Setenv("COPIER_TIMEOUT", "10")

	cfg := Load()
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.Copier.Timeout)
}
