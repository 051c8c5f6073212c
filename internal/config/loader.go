package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// EnvPrefix is the prefix for environment-variable overrides, e.g.
// TMIQ_REGISTRY_API_KEY overrides registry.api_key.
const EnvPrefix = "TMIQ"

// Load reads configuration from the given file path (optional), layers
// environment-variable overrides on top, applies defaults, and validates the
// result.  When path is empty, only environment variables and defaults are
// used.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	registerKeys(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// registerKeys declares every configuration key to viper so that
// AutomaticEnv can resolve environment overrides even when no file sets the
// key.  Values here are placeholders; real defaults live in ApplyDefaults.
func registerKeys(v *viper.Viper) {
	keys := []string{
		"server.port", "server.mode", "server.read_timeout",
		"server.write_timeout", "server.shutdown_timeout",
		"registry.base_url", "registry.api_key", "registry.request_timeout",
		"registry.detail_fetch_limit", "registry.min_accuracy",
		"detection.search_concurrency", "detection.max_variants",
		"detection.max_aggregated", "detection.inclusion_threshold",
		"detection.report_limit", "detection.variant_cache_ttl",
		"redis.addr", "redis.password", "redis.db", "redis.pool_size",
		"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout",
		"redis.default_ttl", "redis.key_prefix",
		"kafka.enabled", "kafka.brokers", "kafka.producer_retries",
		"kafka.batch_size", "kafka.timeout_ms",
		"database.enabled", "database.host", "database.port",
		"database.user", "database.password", "database.db_name",
		"database.ssl_mode", "database.max_conns", "database.conn_max_lifetime",
		"log.level", "log.format",
	}
	for _, k := range keys {
		v.SetDefault(k, nil)
	}
}

// Watch re-reads the configuration file whenever it changes on disk and
// invokes onChange with the freshly validated Config.  Invalid updates are
// dropped silently; the previous configuration stays in effect.  Watch is a
// no-op when path is empty.
func Watch(path string, onChange func(*Config)) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: watching %s: %w", path, err)
	}

	v.OnConfigChange(func(fsnotify.Event) {
		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			return
		}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
