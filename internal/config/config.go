// Package config provides Viper-based hierarchical configuration management.
// Configuration is resolved from defaults, an optional YAML config file, and
// environment variables, then passed into components as an immutable value.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		XMLInput   string `mapstructure:"xml_input" yaml:"xml_input"`
		JSONOutput string `mapstructure:"json_output" yaml:"json_output"`
		StatsDir   string `mapstructure:"stats_dir" yaml:"stats_dir"`
	} `mapstructure:"data" yaml:"data"`

	Normalizer struct {
		CountryCode  string `mapstructure:"country_code" yaml:"country_code"`
		CurrencyCode string `mapstructure:"currency_code" yaml:"currency_code"`
	} `mapstructure:"normalizer" yaml:"normalizer"`

	Categorizer struct {
		RulesFile           string  `mapstructure:"rules_file" yaml:"rules_file"`
		AirtimeMaxAmount    float64 `mapstructure:"airtime_max_amount" yaml:"airtime_max_amount"`
		SchoolFeesMinAmount float64 `mapstructure:"school_fees_min_amount" yaml:"school_fees_min_amount"`
	} `mapstructure:"categorizer" yaml:"categorizer"`

	Pipeline struct {
		ProgressInterval int `mapstructure:"progress_interval" yaml:"progress_interval"`
	} `mapstructure:"pipeline" yaml:"pipeline"`

	Server struct {
		Host     string `mapstructure:"host" yaml:"host"`
		Port     int    `mapstructure:"port" yaml:"port"`
		Username string `mapstructure:"username" yaml:"-"`
		Password string `mapstructure:"password" yaml:"-"`
	} `mapstructure:"server" yaml:"server"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`
}

// InitializeConfig resolves the configuration: defaults, then an optional
// config.yaml in $HOME/.momo-etl, ./.momo-etl or the working directory, then
// MOMO_-prefixed environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.momo-etl")
	v.AddConfigPath(".momo-etl")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MOMO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A broken config file should not be fatal; defaults and env
			// variables still apply.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// API credentials keep their historical unprefixed names.
	if err := v.BindEnv("server.username", "AUTH_USERNAME"); err != nil {
		fmt.Printf("Warning: failed to bind AUTH_USERNAME environment variable: %v\n", err)
	}
	if err := v.BindEnv("server.password", "AUTH_PASSWORD"); err != nil {
		fmt.Printf("Warning: failed to bind AUTH_PASSWORD environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.xml_input", "data/modified_sms_v2.xml")
	v.SetDefault("data.json_output", "data/transactions.json")
	v.SetDefault("data.stats_dir", "data/processed")

	v.SetDefault("normalizer.country_code", "250")
	v.SetDefault("normalizer.currency_code", "RWF")

	v.SetDefault("categorizer.rules_file", "")
	v.SetDefault("categorizer.airtime_max_amount", 5000.0)
	v.SetDefault("categorizer.school_fees_min_amount", 50000.0)

	v.SetDefault("pipeline.progress_interval", 1000)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.username", "admin")
	v.SetDefault("server.password", "secret")

	v.SetDefault("csv.delimiter", ",")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Normalizer.CountryCode == "" || strings.ContainsFunc(config.Normalizer.CountryCode, func(r rune) bool { return r < '0' || r > '9' }) {
		return fmt.Errorf("normalizer.country_code must be digits, got: %q", config.Normalizer.CountryCode)
	}

	if config.Normalizer.CurrencyCode == "" {
		return fmt.Errorf("normalizer.currency_code must not be empty")
	}

	if config.Categorizer.AirtimeMaxAmount < 0 {
		return fmt.Errorf("categorizer.airtime_max_amount must be non-negative, got: %f", config.Categorizer.AirtimeMaxAmount)
	}

	if config.Categorizer.SchoolFeesMinAmount < config.Categorizer.AirtimeMaxAmount {
		return fmt.Errorf("categorizer.school_fees_min_amount must not be below airtime_max_amount")
	}

	if config.Pipeline.ProgressInterval <= 0 {
		return fmt.Errorf("pipeline.progress_interval must be positive, got: %d", config.Pipeline.ProgressInterval)
	}

	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got: %d", config.Server.Port)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	return nil
}

// LoadEnv loads environment variables from a .env file when one exists in the
// working directory or its parent. Missing files are not an error.
func LoadEnv() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

// ConfigureLogging builds a logrus logger from the Log section.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
