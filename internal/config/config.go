package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the engine
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Detection DetectionConfig `mapstructure:"detection"`
	Registry  RegistryConfig  `mapstructure:"registry"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Schema          string        `mapstructure:"schema"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// DetectionConfig holds scoring thresholds and bonuses for the risk scorer.
// The keyword and template tables themselves are compiled into the signals
// package; only the calibration knobs live in configuration.
type DetectionConfig struct {
	ScamThreshold          int `mapstructure:"scam_threshold"`
	HighConfidenceThreshold int `mapstructure:"high_confidence_threshold"`
	CriticalThreshold      int `mapstructure:"critical_threshold"`
	LowTierFloor           int `mapstructure:"low_tier_floor"`
	LinkBonus              int `mapstructure:"link_bonus"`
	EscalationBonus        int `mapstructure:"escalation_bonus"`
	MaxMessageLength       int `mapstructure:"max_message_length"`

	// Session-cumulative bonuses for hitting multiple tactic categories
	MultiCategoryBonus MultiCategoryBonus `mapstructure:"multi_category_bonus"`
}

type MultiCategoryBonus struct {
	Two      int `mapstructure:"two"`
	Three    int `mapstructure:"three"`
	Four     int `mapstructure:"four"`
	FivePlus int `mapstructure:"five_plus"`
}

// RegistryConfig controls the cross-session registries
type RegistryConfig struct {
	MaxSimilarSessions int `mapstructure:"max_similar_sessions"`
	TopPatternLimit    int `mapstructure:"top_pattern_limit"`
}

// Default returns the in-code defaults, used when the engine is embedded
// as a library without a config file.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:        "scamguard-lab",
			Environment: "development",
			Version:     "dev",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "scamguard",
			DBName:          "scamguard",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			Schema:          "public",
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			KeyPrefix: "scamguard:",
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "console",
			TimeFormat: time.RFC3339,
		},
		Detection: DefaultDetection(),
		Registry: RegistryConfig{
			MaxSimilarSessions: 10,
			TopPatternLimit:    20,
		},
	}
}

// DefaultDetection returns the default scoring calibration
func DefaultDetection() DetectionConfig {
	return DetectionConfig{
		ScamThreshold:           30,
		HighConfidenceThreshold: 60,
		CriticalThreshold:       100,
		LowTierFloor:            15,
		LinkBonus:               15,
		EscalationBonus:         12,
		MaxMessageLength:        8192,
		MultiCategoryBonus: MultiCategoryBonus{
			Two:      10,
			Three:    25,
			Four:     45,
			FivePlus: 70,
		},
	}
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamguard-lab")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SCAMGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("redis.host", "SCAMGUARD_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMGUARD_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMGUARD_REDIS_PASSWORD")
	v.BindEnv("database.host", "SCAMGUARD_DATABASE_HOST")
	v.BindEnv("database.port", "SCAMGUARD_DATABASE_PORT")
	v.BindEnv("database.user", "SCAMGUARD_DATABASE_USER")
	v.BindEnv("database.password", "SCAMGUARD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "SCAMGUARD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "SCAMGUARD_DATABASE_SSLMODE")
	v.BindEnv("app.environment", "SCAMGUARD_APP_ENVIRONMENT")

	// Read config file; a missing file falls back to defaults, anything
	// else (unreadable, malformed YAML) is fatal
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate rejects calibration values that would silently break scoring
func (c *Config) Validate() error {
	d := c.Detection
	if d.ScamThreshold <= 0 {
		return fmt.Errorf("detection: scam_threshold must be positive, got %d", d.ScamThreshold)
	}
	if d.HighConfidenceThreshold <= d.ScamThreshold {
		return fmt.Errorf("detection: high_confidence_threshold (%d) must exceed scam_threshold (%d)",
			d.HighConfidenceThreshold, d.ScamThreshold)
	}
	if d.CriticalThreshold <= d.HighConfidenceThreshold {
		return fmt.Errorf("detection: critical_threshold (%d) must exceed high_confidence_threshold (%d)",
			d.CriticalThreshold, d.HighConfidenceThreshold)
	}
	if d.LowTierFloor <= 0 || d.LowTierFloor >= d.ScamThreshold {
		return fmt.Errorf("detection: low_tier_floor (%d) must sit between 0 and scam_threshold (%d)",
			d.LowTierFloor, d.ScamThreshold)
	}
	if d.MaxMessageLength <= 0 {
		return fmt.Errorf("detection: max_message_length must be positive, got %d", d.MaxMessageLength)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := Default()

	v.SetDefault("app.name", def.App.Name)
	v.SetDefault("app.environment", def.App.Environment)
	v.SetDefault("app.version", def.App.Version)

	v.SetDefault("database.host", def.Database.Host)
	v.SetDefault("database.port", def.Database.Port)
	v.SetDefault("database.user", def.Database.User)
	v.SetDefault("database.dbname", def.Database.DBName)
	v.SetDefault("database.sslmode", def.Database.SSLMode)
	v.SetDefault("database.max_open_conns", def.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", def.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", def.Database.ConnMaxLifetime)
	v.SetDefault("database.schema", def.Database.Schema)

	v.SetDefault("redis.host", def.Redis.Host)
	v.SetDefault("redis.port", def.Redis.Port)
	v.SetDefault("redis.key_prefix", def.Redis.KeyPrefix)

	v.SetDefault("logger.level", def.Logger.Level)
	v.SetDefault("logger.format", def.Logger.Format)
	v.SetDefault("logger.time_format", def.Logger.TimeFormat)

	v.SetDefault("detection.scam_threshold", def.Detection.ScamThreshold)
	v.SetDefault("detection.high_confidence_threshold", def.Detection.HighConfidenceThreshold)
	v.SetDefault("detection.critical_threshold", def.Detection.CriticalThreshold)
	v.SetDefault("detection.low_tier_floor", def.Detection.LowTierFloor)
	v.SetDefault("detection.link_bonus", def.Detection.LinkBonus)
	v.SetDefault("detection.escalation_bonus", def.Detection.EscalationBonus)
	v.SetDefault("detection.max_message_length", def.Detection.MaxMessageLength)
	v.SetDefault("detection.multi_category_bonus.two", def.Detection.MultiCategoryBonus.Two)
	v.SetDefault("detection.multi_category_bonus.three", def.Detection.MultiCategoryBonus.Three)
	v.SetDefault("detection.multi_category_bonus.four", def.Detection.MultiCategoryBonus.Four)
	v.SetDefault("detection.multi_category_bonus.five_plus", def.Detection.MultiCategoryBonus.FivePlus)

	v.SetDefault("registry.max_similar_sessions", def.Registry.MaxSimilarSessions)
	v.SetDefault("registry.top_pattern_limit", def.Registry.TopPatternLimit)
}
