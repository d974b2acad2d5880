package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Addr           string        `mapstructure:"addr"`
	DatabaseURL    string        `mapstructure:"database_url"`
	SessionSecret  string        `mapstructure:"session_secret"`
	SessionTimeout time.Duration `mapstructure:"session_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
}

// LoadConfig reads config.yaml if present, with every key overridable
// through LABOR_* environment variables.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("labor")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8084")
	v.SetDefault("database_url",
		"host=localhost port=5432 user=postgres password=1 dbname=labor_reports sslmode=disable")
	v.SetDefault("session_secret", "change-this-in-production")
	v.SetDefault("session_timeout", 5*time.Minute)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
