package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "research_data", cfg.Storage.DataDir)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.AI.BaseURL)
	assert.Equal(t, "deepseek/deepseek-chat", cfg.AI.Model)
	assert.Equal(t, 10*time.Second, cfg.AI.Timeout())
	assert.Equal(t, 4*time.Hour, cfg.Session.TTL())
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"server:",
		"  port: \"9090\"",
		"storage:",
		"  data_dir: /var/lib/easynatorics",
		"redis:",
		"  addr: localhost:6379",
		"session:",
		"  ttl_minutes: 30",
	}, "\n"))
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port, "Переменная окружения важнее файла")
	assert.Equal(t, "/var/lib/easynatorics", cfg.Storage.DataDir)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.Storage.DataDir = "" }, true},
		{"database enabled without host", func(c *Config) { c.Database.Enabled = true }, true},
		{"researcher without secret", func(c *Config) { c.Researcher.PasswordHash = "$2a$10$x" }, true},
		{"researcher with secret", func(c *Config) {
			c.Researcher.PasswordHash = "$2a$10$x"
			c.Researcher.JWTSecret = strings.Repeat("s", 32)
		}, false},
		{"zero session ttl", func(c *Config) { c.Session.TTLMinutes = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Storage:    StorageConfig{DataDir: "data"},
				Session:    SessionConfig{TTLMinutes: 60},
				AI:         AIConfig{TimeoutSec: 10},
				Researcher: ResearcherConfig{TokenTTLHours: 8},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
