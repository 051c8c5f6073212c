// Package config defines all configuration structures for the trademark
// collision-detection platform.  No I/O or parsing logic lives here, only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RegistryConfig holds the external trademark-search provider parameters.
type RegistryConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// DetailFetchLimit bounds how many top-ranked hits get a full-record
	// fetch per run.  Owner and goods/services text is expensive to pull
	// for every hit.
	DetailFetchLimit int `mapstructure:"detail_fetch_limit"`

	// MinAccuracy drops provider hits below this accuracy before any
	// similarity scoring happens.
	MinAccuracy int `mapstructure:"min_accuracy"`

	// SearchCacheTTL bounds how long a raw search page may be reused.  Zero
	// disables the page cache.
	SearchCacheTTL time.Duration `mapstructure:"search_cache_ttl"`
}

// DetectionConfig holds the collision-detection policy knobs.
type DetectionConfig struct {
	// SearchConcurrency bounds in-flight provider searches per run.  This is
	// a rate-limit contract with the provider, not a throughput tunable.
	SearchConcurrency int `mapstructure:"search_concurrency"`

	// MaxVariants caps the variant list handed to the aggregator.
	MaxVariants int `mapstructure:"max_variants"`

	// MaxAggregated caps the merged, deduplicated hit set handed to the scorer.
	MaxAggregated int `mapstructure:"max_aggregated"`

	// InclusionThreshold is the combined-score floor for keeping a hit
	// (core-word matches are kept regardless).
	InclusionThreshold int `mapstructure:"inclusion_threshold"`

	// ReportLimit truncates the final ranked conflict list.
	ReportLimit int `mapstructure:"report_limit"`

	// VariantCacheTTL bounds how long a variant strategy stays cached.
	VariantCacheTTL time.Duration `mapstructure:"variant_cache_ttl"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer parameters for detection events.
type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ProducerRetries int      `mapstructure:"producer_retries"`
	BatchSize       int      `mapstructure:"batch_size"`
	TimeoutMS       int      `mapstructure:"timeout_ms"`

	// GroupID is the consumer group of the alert worker.
	GroupID string `mapstructure:"group_id"`

	// DeadLetterTopic receives messages the worker could not process after
	// the retry policy is exhausted.
	DeadLetterTopic string `mapstructure:"dead_letter_topic"`
}

// DatabaseConfig holds PostgreSQL parameters for the optional audit store.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the platform.  Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Registry  RegistryConfig  `mapstructure:"registry"`
	Detection DetectionConfig `mapstructure:"detection"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.  A misconfigured concurrency
// limit or score threshold is a construction-time failure, never a call-time
// surprise.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Registry
	if c.Registry.BaseURL == "" {
		return fmt.Errorf("config: registry.base_url is required")
	}
	if c.Registry.DetailFetchLimit < 0 {
		return fmt.Errorf("config: registry.detail_fetch_limit must be >= 0, got %d", c.Registry.DetailFetchLimit)
	}
	if c.Registry.MinAccuracy < 0 || c.Registry.MinAccuracy > 100 {
		return fmt.Errorf("config: registry.min_accuracy %d is out of range [0, 100]", c.Registry.MinAccuracy)
	}

	// Detection
	if c.Detection.SearchConcurrency < 1 {
		return fmt.Errorf("config: detection.search_concurrency must be >= 1, got %d", c.Detection.SearchConcurrency)
	}
	if c.Detection.MaxVariants < 1 {
		return fmt.Errorf("config: detection.max_variants must be >= 1, got %d", c.Detection.MaxVariants)
	}
	if c.Detection.MaxAggregated < 1 {
		return fmt.Errorf("config: detection.max_aggregated must be >= 1, got %d", c.Detection.MaxAggregated)
	}
	if c.Detection.InclusionThreshold < 0 || c.Detection.InclusionThreshold > 100 {
		return fmt.Errorf("config: detection.inclusion_threshold %d is out of range [0, 100]", c.Detection.InclusionThreshold)
	}
	if c.Detection.ReportLimit < 1 {
		return fmt.Errorf("config: detection.report_limit must be >= 1, got %d", c.Detection.ReportLimit)
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	// Kafka (only when enabled)
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address when kafka is enabled")
	}

	// Database (only when enabled)
	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when the audit store is enabled")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when the audit store is enabled")
		}
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
