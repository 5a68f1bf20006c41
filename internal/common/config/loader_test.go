// internal/common/config/loader_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: suggestion-engine
  environment: test
server:
  port: 8181
database:
  postgres:
    host: db.internal
    database: suggestions
    sslmode: require
tenants:
  default_limits:
    requests_per_minute: 30
  overrides:
    tenant-premium:
      requests_per_minute: 300
      requests_per_hour: 10000
      ai_per_minute: 60
      ai_per_hour: 1000
  registry:
    - tenant_id: tenant-1
      api_key: key-1
      enabled: true
providers:
  - name: primary
    base_url: https://llm.example.com
    api_key: pk
cache:
  ttl: 120
cooldown:
  duration: 600
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, 8181, cfg.Server.Port)

	// The sslmode key must bind; a silent miss leaves the DSN broken.
	assert.Equal(t, "require", cfg.Database.Postgres.SSLMode)
	assert.Contains(t, cfg.Database.Postgres.GetDSN(), "sslmode=require")

	// Explicit values survive, gaps get defaults.
	assert.Equal(t, 30, cfg.Tenants.DefaultLimits.RequestsPerMinute)
	assert.Equal(t, 1000, cfg.Tenants.DefaultLimits.RequestsPerHour)
	assert.Equal(t, 10, cfg.Tenants.DefaultLimits.AIPerMinute)

	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, 20000, cfg.Providers[0].Timeout)
	assert.Equal(t, 800, cfg.Providers[0].MaxTokens)

	assert.Equal(t, 2*time.Minute, cfg.Cache.TTLDuration())
	assert.Equal(t, 10*time.Minute, cfg.Cooldown.CooldownDuration())

	require.Len(t, cfg.Tenants.Registry, 1)
	assert.Equal(t, "tenant-1", cfg.Tenants.Registry[0].TenantID)
}

func TestLimitsFor(t *testing.T) {
	tenants := TenantsConfig{
		DefaultLimits: LimitSet{RequestsPerMinute: 60, RequestsPerHour: 1000, AIPerMinute: 10, AIPerHour: 100},
		Overrides: map[string]LimitSet{
			"tenant-premium": {RequestsPerMinute: 300, RequestsPerHour: 10000, AIPerMinute: 60, AIPerHour: 1000},
		},
	}

	assert.Equal(t, 60, tenants.LimitsFor("tenant-1").RequestsPerMinute)
	assert.Equal(t, 300, tenants.LimitsFor("tenant-premium").RequestsPerMinute)
}

func TestLoadFromFileValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "duplicate provider names",
			content: `
providers:
  - name: primary
    base_url: https://a.example.com
  - name: primary
    base_url: https://b.example.com
`,
		},
		{
			name: "registry entry without tenant id",
			content: `
tenants:
  registry:
    - api_key: key-1
      enabled: true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, User: "svc", Password: "pw",
		Database: "suggestions", SSLMode: "disable",
	}
	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=suggestions")
	assert.True(t, cfg.Enabled())
	assert.False(t, PostgresConfig{}.Enabled())
}
