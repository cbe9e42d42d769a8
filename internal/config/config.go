package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
// An empty DatabaseURL or RedisURL turns that store off.
type Config struct {
	Port           string        `mapstructure:"port" validate:"required,numeric"`
	DatabaseURL    string        `mapstructure:"database_url"`
	RedisURL       string        `mapstructure:"redis_url"`
	JWTSecret      string        `mapstructure:"jwt_secret" validate:"required,min=8"`
	SolverWorkers  int           `mapstructure:"solver_workers" validate:"min=1,max=1024"`
	MaxHorizon     int           `mapstructure:"max_horizon" validate:"min=1,max=361"`
	DefaultHorizon int           `mapstructure:"default_horizon" validate:"min=0,ltefield=MaxHorizon"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl" validate:"min=0"`
	MetricsEnabled bool          `mapstructure:"metrics_enabled"`
	LogLevel       string        `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("port", "8019")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "")
	v.SetDefault("jwt_secret", "dev-secret-change-me")
	v.SetDefault("solver_workers", runtime.NumCPU())
	v.SetDefault("max_horizon", 40)
	v.SetDefault("default_horizon", 24)
	v.SetDefault("cache_ttl", "24h")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("log_level", "info")
}

// Load reads configuration from environment variables (and a .env file when
// present) on top of defaults, then validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	defaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

var validate = validator.New()

// Validate checks struct tags and reports every failing field.
func Validate(i any) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Field(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
