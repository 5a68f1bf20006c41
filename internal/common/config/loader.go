// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like PROVIDER_PRIMARY_API_KEY
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored if absent
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Load .env from multiple possible locations (tests run from package dirs)
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "suggestion-engine"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.OpsPort == 0 {
		cfg.Server.OpsPort = 9090
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Tenants.DefaultLimits.RequestsPerMinute == 0 {
		cfg.Tenants.DefaultLimits.RequestsPerMinute = 60
	}
	if cfg.Tenants.DefaultLimits.RequestsPerHour == 0 {
		cfg.Tenants.DefaultLimits.RequestsPerHour = 1000
	}
	if cfg.Tenants.DefaultLimits.AIPerMinute == 0 {
		cfg.Tenants.DefaultLimits.AIPerMinute = 10
	}
	if cfg.Tenants.DefaultLimits.AIPerHour == 0 {
		cfg.Tenants.DefaultLimits.AIPerHour = 100
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300
	}
	if cfg.Cache.SweepInterval == 0 {
		cfg.Cache.SweepInterval = 60
	}
	if cfg.Cooldown.Duration == 0 {
		cfg.Cooldown.Duration = 600
	}

	if cfg.Sources.POI.RadiusKM == 0 {
		cfg.Sources.POI.RadiusKM = 5
	}
	if cfg.Sources.POI.MaxResults == 0 {
		cfg.Sources.POI.MaxResults = 20
	}
	if cfg.Sources.Citybeat.Timeout == 0 {
		cfg.Sources.Citybeat.Timeout = 5000
	}
	if cfg.Sources.Gatherly.Timeout == 0 {
		cfg.Sources.Gatherly.Timeout = 5000
	}
	if cfg.Sources.Weather.Timeout == 0 {
		cfg.Sources.Weather.Timeout = 3000
	}
	if cfg.Sources.Weather.Units == "" {
		cfg.Sources.Weather.Units = "metric"
	}

	for i := range cfg.Providers {
		if cfg.Providers[i].Timeout == 0 {
			cfg.Providers[i].Timeout = 20000
		}
		if cfg.Providers[i].MaxTokens == 0 {
			cfg.Providers[i].MaxTokens = 800
		}
		if cfg.Providers[i].Temperature == 0 {
			cfg.Providers[i].Temperature = 0.8
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// overrideEmptyConfig fills secrets from well-known env vars when the yaml
// left them empty.
func overrideEmptyConfig(cfg *Config) {
	for i := range cfg.Providers {
		if cfg.Providers[i].APIKey == "" {
			envKey := fmt.Sprintf("PROVIDER_%s_API_KEY", strings.ToUpper(cfg.Providers[i].Name))
			if val := os.Getenv(envKey); val != "" {
				cfg.Providers[i].APIKey = val
			}
		}
	}

	if cfg.Sources.Citybeat.APIKey == "" {
		if val := os.Getenv("CITYBEAT_API_KEY"); val != "" {
			cfg.Sources.Citybeat.APIKey = val
		}
	}
	if cfg.Sources.Gatherly.APIKey == "" {
		if val := os.Getenv("GATHERLY_API_KEY"); val != "" {
			cfg.Sources.Gatherly.APIKey = val
		}
	}
	if cfg.Sources.Weather.APIKey == "" {
		if val := os.Getenv("WEATHER_API_KEY"); val != "" {
			cfg.Sources.Weather.APIKey = val
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
}

func validateConfig(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Providers))
	for _, p := range cfg.Providers {
		if p.Name == "" {
			return fmt.Errorf("provider with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate provider name %q", p.Name)
		}
		seen[p.Name] = true
	}

	for _, entry := range cfg.Tenants.Registry {
		if entry.TenantID == "" {
			return fmt.Errorf("tenant registry entry with empty tenant_id")
		}
	}

	if cfg.Cache.TTL < 0 || cfg.Cooldown.Duration < 0 {
		return fmt.Errorf("cache ttl and cooldown duration must be non-negative")
	}

	return nil
}
