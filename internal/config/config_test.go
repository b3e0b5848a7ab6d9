package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpersFallBackOnInvalidValues(t *testing.T) {
	t.Setenv("FOODLOG_TEST_INT", "-3")
	t.Setenv("FOODLOG_TEST_BOOL", "maybe")
	t.Setenv("FOODLOG_TEST_DURATION", "soon")

	assert.Equal(t, 7, envInt("FOODLOG_TEST_INT", 7))
	assert.True(t, envBool("FOODLOG_TEST_BOOL", true))
	assert.Equal(t, 10*time.Minute, envDuration("FOODLOG_TEST_DURATION", 10*time.Minute))
	assert.Equal(t, "fallback", envString("FOODLOG_TEST_MISSING", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg := Load()
	assert.Equal(t, 200, cfg.FoodFetchLimit)
	assert.Equal(t, 7, cfg.FoodPageSize)
	assert.Equal(t, 10*time.Minute, cfg.AvatarSignedURLExpiry)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.GoogleEnabled())
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg := &Config{
		AppName:      "Foodlog",
		JWTSecret:    "jwt",
		S3SecretKey:  "s3",
		ResendAPIKey: "resend",
		RedisURL:     "redis://secret@host",
		FoodPageSize: 7,
	}

	safe := cfg.Sanitized()
	assert.Equal(t, "Foodlog", safe.AppName)
	assert.Equal(t, 7, safe.FoodPageSize)
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.S3SecretKey)
	assert.Empty(t, safe.ResendAPIKey)
	assert.Empty(t, safe.RedisURL)
}
