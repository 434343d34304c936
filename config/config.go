// Package config reads settings from the environment (optionally seeded from
// a .env file) and an optional config.yaml.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Log      LogConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
}

type AppConfig struct {
	Env           string
	Port          string
	JWTSecret     string
	LatencyScale  float64
	CORSOrigins   []string
	PostalAPIURL  string
	PostalTimeout time.Duration
	SessionIdle   time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver string // memory, mysql, sqlite
	DSN    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type StorageConfig struct {
	S3Bucket  string
	UploadDir string
}

type SMTPConfig struct {
	Address  string
	Host     string
	From     string
	Password string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("jwt_secret", "goneer-dev-secret")
	v.SetDefault("latency_scale", 1.0)
	v.SetDefault("cors_origins", "http://localhost:5173")
	v.SetDefault("postal_api_url", "https://api.postalpincode.in")
	v.SetDefault("postal_timeout", "5s")
	v.SetDefault("session_idle_timeout", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("db_driver", "memory")
	v.SetDefault("db_dsn", "goneer.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("upload_dir", "uploads")
}

// Load builds the configuration. Environment variables win over config.yaml,
// which wins over the defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Env:           v.GetString("app_env"),
			Port:          v.GetString("port"),
			JWTSecret:     v.GetString("jwt_secret"),
			LatencyScale:  v.GetFloat64("latency_scale"),
			CORSOrigins:   splitList(v.GetString("cors_origins")),
			PostalAPIURL:  v.GetString("postal_api_url"),
			PostalTimeout: v.GetDuration("postal_timeout"),
			SessionIdle:   v.GetDuration("session_idle_timeout"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
		},
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("db_driver")),
			DSN:    v.GetString("db_dsn"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis_addr"),
			Password: v.GetString("redis_password"),
			DB:       v.GetInt("redis_db"),
		},
		Storage: StorageConfig{
			S3Bucket:  v.GetString("s3_bucket"),
			UploadDir: v.GetString("upload_dir"),
		},
		SMTP: SMTPConfig{
			Address:  v.GetString("smtp_address"),
			Host:     v.GetString("from_email_smtp"),
			From:     v.GetString("from_email"),
			Password: v.GetString("from_email_password"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "memory", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.App.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.App.LatencyScale < 0 {
		return fmt.Errorf("LATENCY_SCALE must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
