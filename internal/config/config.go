package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"vufs/engine/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Channels    ChannelsConfig    `mapstructure:"channels"`
	Consignment ConsignmentConfig `mapstructure:"consignment"`
	Export      ExportConfig      `mapstructure:"export"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	Password      string `mapstructure:"password"`
	Database      int    `mapstructure:"database"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	MinIdleTime   int    `mapstructure:"min_idle_time"`
}

// ChannelsConfig holds export-channel integration settings
type ChannelsConfig struct {
	Endpoints            map[string]string `mapstructure:"endpoints"`     // channel id -> base URL
	FeePagePath          string            `mapstructure:"fee_page_path"` // path of the published fee-schedule page
	Timeout              int               `mapstructure:"timeout"`
	MaxRetries           int               `mapstructure:"max_retries"`
	MaxWorkers           int               `mapstructure:"max_workers"`
	MaxRequestsPerSecond int               `mapstructure:"max_requests_per_second"`
}

// ConsignmentConfig holds the default consignment settings snapshot
type ConsignmentConfig struct {
	DefaultCommissionRate float64            `mapstructure:"default_commission_rate"`
	PlatformFeeRates      map[string]float64 `mapstructure:"platform_fee_rates"`
	PaymentTermsDays      int                `mapstructure:"payment_terms_days"`
	MinimumPayout         float64            `mapstructure:"minimum_payout"`
	AutoRepassThreshold   float64            `mapstructure:"auto_repass_threshold"`
}

// ExportConfig holds CSV export settings
type ExportConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// Settings converts the raw config floats into the exact-decimal settings
// snapshot the engine consumes. The conversion happens once here so the
// calculators never touch binary floats.
func (c ConsignmentConfig) Settings() domain.ConsignmentSettings {
	rates := make(map[string]decimal.Decimal, len(c.PlatformFeeRates))
	for channel, rate := range c.PlatformFeeRates {
		rates[channel] = decimal.NewFromFloat(rate)
	}
	return domain.ConsignmentSettings{
		DefaultCommissionRate: decimal.NewFromFloat(c.DefaultCommissionRate),
		PlatformFeeRates:      rates,
		PaymentTermsDays:      c.PaymentTermsDays,
		MinimumPayout:         decimal.NewFromFloat(c.MinimumPayout),
		AutoRepassThreshold:   decimal.NewFromFloat(c.AutoRepassThreshold),
	}
}

// Load loads configuration from YAML file with environment variable overrides
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config.yaml file not found in current directory")
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "localhost")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "vufs")
	viper.SetDefault("database.user", "vufs_user")
	viper.SetDefault("database.password", "vufs_pass")

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "redis_pass")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.consumer_group", "vufs_consumer")
	viper.SetDefault("redis.min_idle_time", 120)

	viper.SetDefault("channels.endpoints", map[string]string{})
	viper.SetDefault("channels.fee_page_path", "/fees")
	viper.SetDefault("channels.timeout", 30)
	viper.SetDefault("channels.max_retries", 3)
	viper.SetDefault("channels.max_workers", 10)
	viper.SetDefault("channels.max_requests_per_second", 5)

	viper.SetDefault("consignment.default_commission_rate", 0.30)
	viper.SetDefault("consignment.platform_fee_rates", map[string]float64{"shopify": 0.029})
	viper.SetDefault("consignment.payment_terms_days", 30)
	viper.SetDefault("consignment.minimum_payout", 50.0)
	viper.SetDefault("consignment.auto_repass_threshold", 1000.0)

	viper.SetDefault("export.output_dir", "./exports")
}
