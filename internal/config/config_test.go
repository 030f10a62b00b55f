package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SECRETS_DIR", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 10, cfg.TurnThreshold)
	assert.True(t, cfg.Completion.Async)
	assert.False(t, cfg.Completion.AwaitImages)
	assert.Equal(t, 2*time.Minute, cfg.Completion.AwaitTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenConfig().TTL)
	assert.Equal(t, 587, cfg.MailerConfig().Port)
	assert.Equal(t, 500, cfg.TextGeneratorConfig().PlotMaxTokens)
	assert.Equal(t, 300, cfg.TextGeneratorConfig().ContinuationMaxTokens)
	assert.Empty(t, cfg.RabbitMQ.URL)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("TURN_THRESHOLD=4\nCOMPLETION_ASYNC=false\nJWT_SECRET=from-file\n"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("TURN_THRESHOLD", "")
	os.Unsetenv("TURN_THRESHOLD")
	t.Setenv("COMPLETION_ASYNC", "")
	os.Unsetenv("COMPLETION_ASYNC")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.TurnThreshold)
	assert.False(t, cfg.CompletionServiceConfig().Async)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
}

func TestLoad_SecretFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("  s3cret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smtp_password"), []byte("mailpass"), 0o600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SMTP_PASSWORD", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "mailpass", cfg.SMTP.Password)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_Threshold(t *testing.T) {
	cfg := &Config{TurnThreshold: 0, GenerationLimit: 1, JWT: JWTConfig{Secret: "x"}, Completion: CompletionConfig{AwaitTimeout: time.Second}}
	assert.Error(t, cfg.Validate())
	cfg.TurnThreshold = 1
	assert.NoError(t, cfg.Validate())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.test, http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
	cfg.CORSAllowedOrigins = " "
	assert.Nil(t, cfg.AllowedOrigins())
}
