package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "uploads", cfg.UploadDir)
	assert.Equal(t, "change-me-in-prod", cfg.JWTSecret)
	assert.Equal(t, "HS256", cfg.JWTAlgo)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpire)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.CORSAllowCredentials)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_ALGO", "HS512")
	t.Setenv("JWT_EXPIRE_MINUTES", "60")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, "HS512", cfg.JWTAlgo)
	assert.Equal(t, time.Hour, cfg.JWTExpire)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.CORSAllowCredentials)
}

func TestLoad_BadExpireFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("JWT_EXPIRE_MINUTES", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpire)
}
