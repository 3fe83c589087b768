package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	t.Helper()
	// envconfig also consults the bare tag names, so clear those too
	for _, k := range []string{"SENTIMO_MODEL_API_KEY", "API_KEY", "VITE_API_KEY", "PORT", "LEVEL", "FORMAT"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingAPIKeyIsFatal(t *testing.T) {
	clearKeys(t)

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestLoad_DefaultsWithEnvKey(t *testing.T) {
	clearKeys(t)
	t.Setenv("SENTIMO_MODEL_API_KEY", "k1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "k1", cfg.Model.APIKey)
	assert.Equal(t, 32768, cfg.Model.ThinkingBudget)
	assert.Equal(t, "gemini-3-pro-preview", cfg.Model.AnalysisModel)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_FallbackKeyNames(t *testing.T) {
	clearKeys(t)
	t.Setenv("VITE_API_KEY", "from-vite")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-vite", cfg.Model.APIKey)

	t.Setenv("API_KEY", "from-api")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-api", cfg.Model.APIKey)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearKeys(t)
	path := writeFile(t, "config.yaml", `
server:
  port: 9090
  allowedOrigins: ["http://localhost:3000"]
model:
  apiKey: file-key
  thinkingBudget: 2048
  analysisTimeout: 90s
log:
  level: debug
`)
	t.Setenv("SENTIMO_MODEL_THINKING_BUDGET", "512")
	t.Setenv("SENTIMO_SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "file-key", cfg.Model.APIKey)
	assert.Equal(t, 512, cfg.Model.ThinkingBudget)
	assert.Equal(t, 90*time.Second, cfg.Model.AnalysisTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	// untouched keys keep defaults
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Minute, cfg.Model.ChatTimeout)
}

func TestLoad_BadYAML(t *testing.T) {
	clearKeys(t)
	path := writeFile(t, "config.yaml", "server: [oops")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }},
		{"budget", func(c *Config) { c.Model.ThinkingBudget = -1 }},
		{"tokens", func(c *Config) { c.Model.MaxOutputTokens = -5 }},
		{"timeout", func(c *Config) { c.Model.ChatTimeout = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Model.APIKey = "k"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	require.NoError(t, os.WriteFile(local, []byte("SENTIMO_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("SENTIMO_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("SENTIMO_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(local, filepath.Join(dir, ".env")))
	assert.Equal(t, "loaded", os.Getenv("SENTIMO_TEST_DOTENV"))
}
