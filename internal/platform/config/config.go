// Package config loads process configuration once at startup. Nothing below
// cmd/ reads the environment; components receive the values they need.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"myshop_backend/internal/platform/db"
	"myshop_backend/internal/platform/externalapi/cfimages"
	"myshop_backend/internal/platform/redis"
	"myshop_backend/internal/shared/apperr"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned by Validate when no signing secret is set.
var ErrMissingJWTSecret = apperr.New(apperr.KindConfiguration, "JWT_SECRET is not set")

// Config is the full process configuration.
type Config struct {
	Port            int
	LogLevel        string
	JWTSecret       string
	SeedSecret      string
	AllowedOrigins  []string
	PublicRateLimit float64

	DB     db.Config
	Redis  redis.Config
	Images cfimages.Config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("seed_secret", "")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("public_rate_limit_rps", 10)

	v.SetDefault("db_driver", db.DriverPostgres)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "myshop")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_sqlite_path", "")
	v.SetDefault("db_connect_timeout", "60s")
	v.SetDefault("run_migrations", false)

	v.SetDefault("redis_host", "")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")

	v.SetDefault("images_account_id", "")
	v.SetDefault("images_account_hash", "")
	v.SetDefault("images_api_token", "")
	v.SetDefault("images_api_base", cfimages.DefaultAPIBase)
	v.SetDefault("images_delivery_base", cfimages.DefaultDeliveryBase)
	v.SetDefault("images_variant_avatar", cfimages.DefaultAvatarVariant)
	v.SetDefault("images_variant_cover", cfimages.DefaultCoverVariant)
}

// Load reads defaults, then the optional file at path, then the environment
// (including a .env file in the working directory when present).
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:            v.GetInt("port"),
		LogLevel:        v.GetString("log_level"),
		JWTSecret:       v.GetString("jwt_secret"),
		SeedSecret:      v.GetString("seed_secret"),
		AllowedOrigins:  SplitOrigins(v.GetString("allowed_origins")),
		PublicRateLimit: v.GetFloat64("public_rate_limit_rps"),
		DB: db.Config{
			Driver:         v.GetString("db_driver"),
			Host:           v.GetString("db_host"),
			Port:           v.GetString("db_port"),
			User:           v.GetString("db_user"),
			Password:       v.GetString("db_password"),
			Name:           v.GetString("db_name"),
			SSLMode:        v.GetString("db_sslmode"),
			SQLitePath:     v.GetString("db_sqlite_path"),
			ConnectTimeout: v.GetDuration("db_connect_timeout"),
			RunMigrations:  v.GetBool("run_migrations"),
		},
		Redis: redis.Config{
			Host:     v.GetString("redis_host"),
			Port:     v.GetString("redis_port"),
			Password: v.GetString("redis_password"),
		},
		Images: cfimages.Config{
			AccountID:     v.GetString("images_account_id"),
			AccountHash:   v.GetString("images_account_hash"),
			APIToken:      v.GetString("images_api_token"),
			APIBase:       v.GetString("images_api_base"),
			DeliveryBase:  v.GetString("images_delivery_base"),
			AvatarVariant: v.GetString("images_variant_avatar"),
			CoverVariant:  v.GetString("images_variant_cover"),
			Timeout:       10 * time.Second,
		},
	}
}

// Validate checks settings the HTTP server cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SplitOrigins parses a comma-separated origin list, dropping blanks.
func SplitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
