package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "AUTH_MODE", "SPLIT_STRICT_SETTLEMENT", "SHUTDOWN_TIMEOUT", "REDIS_URL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, AuthModeDev, cfg.AuthMode)
	assert.False(t, cfg.StrictSettlement)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_MODE", AuthModeJWT)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SPLIT_STRICT_SETTLEMENT", "true")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DATABASE_MAX_CONNS", "25")
	t.Setenv("REDIS_CHANNEL", "ledger")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.StrictSettlement)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 25, cfg.DatabaseMaxConns)
	assert.Equal(t, "ledger", cfg.RedisChannel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev", Config{AuthMode: AuthModeDev, DatabaseURL: "postgres://x"}, false},
		{"jwt without secret", Config{AuthMode: AuthModeJWT, DatabaseURL: "postgres://x"}, true},
		{"unknown mode", Config{AuthMode: "basic", DatabaseURL: "postgres://x"}, true},
		{"no database", Config{AuthMode: AuthModeDev}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
