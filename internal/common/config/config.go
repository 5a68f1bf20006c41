// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Server    ServerConfig     `mapstructure:"server"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Tenants   TenantsConfig    `mapstructure:"tenants"`
	Providers []ProviderConfig `mapstructure:"providers"`
	Sources   SourcesConfig    `mapstructure:"sources"`
	Cache     CacheConfig      `mapstructure:"cache"`
	Cooldown  CooldownConfig   `mapstructure:"cooldown"`
	Logging   LoggingConfig    `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	OpsPort         int    `mapstructure:"ops_port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// Enabled reports whether a Postgres-backed tenant registry is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.Database != ""
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether Redis-backed stores should be used instead
// of the in-memory defaults.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// --- Tenant Configuration ---

// LimitSet holds the per-operation fixed-window quotas for one tenant.
// Each operation is tracked over a minute and an hour window independently.
type LimitSet struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
	RequestsPerHour   int `mapstructure:"requests_per_hour"`
	AIPerMinute       int `mapstructure:"ai_per_minute"`
	AIPerHour         int `mapstructure:"ai_per_hour"`
}

// TenantEntry registers a tenant and its API key for the static registry.
type TenantEntry struct {
	TenantID string `mapstructure:"tenant_id"`
	APIKey   string `mapstructure:"api_key"`
	Enabled  bool   `mapstructure:"enabled"`
}

// TenantsConfig holds the registry entries and quota configuration.
// Tenants absent from Overrides receive DefaultLimits.
type TenantsConfig struct {
	DefaultLimits LimitSet            `mapstructure:"default_limits"`
	Overrides     map[string]LimitSet `mapstructure:"overrides"`
	Registry      []TenantEntry       `mapstructure:"registry"`
}

// LimitsFor returns the limit set for a tenant, falling back to defaults.
func (t TenantsConfig) LimitsFor(tenantID string) LimitSet {
	if ls, ok := t.Overrides[tenantID]; ok {
		return ls
	}
	return t.DefaultLimits
}

// --- Provider Configuration ---

// ProviderConfig describes one LLM completion backend. List order is
// provider priority: earlier providers win dedup ties.
type ProviderConfig struct {
	Name        string  `mapstructure:"name"`
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
}

// --- External Source Configuration ---

type SourcesConfig struct {
	POI      POISourceConfig     `mapstructure:"poi"`
	Citybeat EventSourceConfig   `mapstructure:"citybeat"`
	Gatherly EventSourceConfig   `mapstructure:"gatherly"`
	Weather  WeatherSourceConfig `mapstructure:"weather"`
}

// POISourceConfig drives the Elasticsearch-backed points-of-interest source.
type POISourceConfig struct {
	Index      string  `mapstructure:"index"`
	RadiusKM   float64 `mapstructure:"radius_km"`
	MaxResults int     `mapstructure:"max_results"`
}

type EventSourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type WeatherSourceConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Units   string `mapstructure:"units"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// --- Cache / Cooldown ---

type CacheConfig struct {
	TTL           int `mapstructure:"ttl"`            // seconds
	SweepInterval int `mapstructure:"sweep_interval"` // seconds
}

func (c CacheConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

func (c CacheConfig) SweepDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}

type CooldownConfig struct {
	Duration int `mapstructure:"duration"` // seconds
}

func (c CooldownConfig) CooldownDuration() time.Duration {
	return time.Duration(c.Duration) * time.Second
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
