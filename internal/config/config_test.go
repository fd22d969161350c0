package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

source:
  url: "https://example.org/price-cycles"
  timeout_seconds: 45

alert:
  secret_key: "test-secret"
  cities: ["sydney", "perth"]
  from_email: "alerts@example.com"
  site_url: "https://fuel.example.com"
  workers: 8

mailer:
  provider: "resend"
  resend_api_key: "re_test"

storage:
  type: "file"
  data_dir: "./test-data"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	assert.Equal(t, "https://example.org/price-cycles", cfg.Source.URL)
	assert.Equal(t, 45, cfg.Source.TimeoutSeconds)

	assert.Equal(t, "test-secret", cfg.Alert.SecretKey)
	assert.Equal(t, []string{"sydney", "perth"}, cfg.Alert.Cities)
	assert.Equal(t, "alerts@example.com", cfg.Alert.FromEmail)
	assert.Equal(t, "https://fuel.example.com", cfg.Alert.SiteURL)
	assert.Equal(t, 8, cfg.Alert.Workers)

	assert.Equal(t, "resend", cfg.Mailer.Provider)
	assert.Equal(t, "re_test", cfg.Mailer.ResendAPIKey)

	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "./test-data", cfg.Storage.DataDir)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("server:\n  port: 0\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Contains(t, cfg.Source.URL, "accc.gov.au")
	assert.Equal(t, []string{"sydney", "melbourne", "brisbane", "adelaide", "perth"}, cfg.Alert.Cities)
	assert.Equal(t, 4, cfg.Alert.Workers)
	assert.Equal(t, "dryrun", cfg.Mailer.Provider)
	assert.Equal(t, "https://api.resend.com", cfg.Mailer.ResendBaseURL)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.Equal(t, "data", cfg.Storage.DataDir)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("alert:\n  secret_key: \"from-file\"\n"), 0644)
	require.NoError(t, err)

	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("RESEND_API_KEY", "re_live")
	t.Setenv("FUEL_CITIES", "Sydney, Perth")
	t.Setenv("DATABASE_URL", "postgres://localhost/fuel")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Alert.SecretKey)
	assert.Equal(t, "re_live", cfg.Mailer.ResendAPIKey)
	// RESEND_API_KEY flips the default dryrun provider to resend
	assert.Equal(t, "resend", cfg.Mailer.Provider)
	assert.Equal(t, []string{"sydney", "perth"}, cfg.Alert.Cities)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://localhost/fuel", cfg.Storage.DatabaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
