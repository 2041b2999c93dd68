package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EXTRACTION_URL", "http://localhost:5000/api/extract")
	t.Setenv("SESSION_SECRET", "")

	cfg := Load()

	assert.Equal(t, "http://localhost:5000/api/extract", cfg.Extraction.URL)
	assert.Equal(t, time.Duration(0), cfg.Extraction.Timeout)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.NotEmpty(t, cfg.Session.Secret, "a random secret is generated when none is configured")
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EXTRACTION_URL", "https://extractor.internal/v2/extract")
	t.Setenv("EXTRACTION_TIMEOUT", "90s")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("MAX_UPLOAD_MB", "25")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, "https://extractor.internal/v2/extract", cfg.Extraction.URL)
	assert.Equal(t, 90*time.Second, cfg.Extraction.Timeout)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, 25, cfg.App.MaxUploadMB)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestValidate_RejectsBadEndpoint(t *testing.T) {
	t.Setenv("EXTRACTION_URL", "not a url")

	cfg := Load()

	assert.Error(t, cfg.Validate())
}

func TestGetEnvAsDuration_IgnoresGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "forever")

	assert.Equal(t, time.Hour, Load().Session.TTL)
}
