package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, matching config/config.yaml.
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`
	Postgres  PostgresConfig            `mapstructure:"postgres"`
	Redis     RedisConfig               `mapstructure:"redis"`
	Sync      SyncConfig                `mapstructure:"sync"`
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	DB      int    `mapstructure:"db"`
}

// SyncConfig drives the scheduled ingestion run.
type SyncConfig struct {
	Cron             string `mapstructure:"cron"`
	WorkerCount      int    `mapstructure:"worker_count"`
	LookbackDays     int    `mapstructure:"lookback_days"`
	AliasRefreshCron string `mapstructure:"alias_refresh_cron"`
}

// ProviderConfig is one provider's independent settings.
type ProviderConfig struct {
	BaseURL    string   `mapstructure:"base_url"`
	Timeout    int      `mapstructure:"timeout"`     // seconds per request
	RetryCount int      `mapstructure:"retry_count"` // bounded retries with backoff
	AuthToken  string   `mapstructure:"auth_token"`
	Proxy      string   `mapstructure:"proxy"`
	Leagues    []string `mapstructure:"leagues"`
}

// LoadConfig reads config/config.yaml; sensitive fields are overridden from
// .env / environment so they never live in the committed yaml.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	overrideFromEnv(&cfg)

	if cfg.Sync.WorkerCount <= 0 {
		cfg.Sync.WorkerCount = 4
	}
	if cfg.Sync.LookbackDays <= 0 {
		cfg.Sync.LookbackDays = 7
	}
	return &cfg, nil
}

// overrideFromEnv applies env overrides for secrets (env > yaml).
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	for name, p := range cfg.Providers {
		envKey := strings.ToUpper(name) + "_AUTH_TOKEN"
		if v := os.Getenv(envKey); v != "" {
			p.AuthToken = v
		}
		if v := os.Getenv(strings.ToUpper(name) + "_PROXY"); v != "" {
			p.Proxy = v
		}
		cfg.Providers[name] = p
	}
}
