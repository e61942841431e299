package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestApplyEnv_OverridesDefaults(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envFrom(map[string]string{
		"DATABASE_URL":                "postgres://u:p@localhost/jobs",
		"SECRET_KEY":                  "s3cret",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "45",
		"BACKEND_CORS_ORIGINS":        `["http://localhost:3000", "https://jobs.example.com"]`,
		"MAIL_STARTTLS":               "false",
		"TWILIO_ACCOUNT_SID":          "AC123",
	}))
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@localhost/jobs", cfg.Database.DSN)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, []string{"http://localhost:3000", "https://jobs.example.com"}, cfg.Server.CORSOrigins)
	assert.False(t, cfg.Mail.StartTLS)
	assert.False(t, cfg.SMSEnabled(), "SMS needs all three Twilio values")
	assert.NoError(t, cfg.Validate())
}

func TestApplyEnv_InvalidInt(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(envFrom(map[string]string{"PORT": "eighty"}))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"missing dsn", func(c *Config) { c.JWT.Secret = "x" }, true},
		{"missing secret", func(c *Config) { c.Database.DSN = "x" }, true},
		{"bad algorithm", func(c *Config) { c.Database.DSN, c.JWT.Secret, c.JWT.Algorithm = "x", "x", "RS256" }, true},
		{"ok", func(c *Config) { c.Database.DSN, c.JWT.Secret = "x", "x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 9090\n  env: production\ndatabase:\n  url: mysql://root@localhost/jobs\njwt:\n  secret: abc\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "mysql://root@localhost/jobs", cfg.Database.DSN)
	assert.Equal(t, "HS256", cfg.JWT.Algorithm, "defaults survive partial files")

	assert.NoError(t, cfg.loadFile(filepath.Join(dir, "missing.yaml")))
}
