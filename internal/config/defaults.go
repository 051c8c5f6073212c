package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Defaults
// ─────────────────────────────────────────────────────────────────────────────

// ApplyDefaults fills zero-valued fields with sensible development defaults.
// Loader calls this after unmarshalling so that a minimal configuration file
// (or none at all, in tests) still yields a runnable Config.
func (c *Config) ApplyDefaults() {
	// Server
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}

	// Registry
	if c.Registry.RequestTimeout == 0 {
		c.Registry.RequestTimeout = 25 * time.Second
	}
	if c.Registry.DetailFetchLimit == 0 {
		c.Registry.DetailFetchLimit = 10
	}
	if c.Registry.SearchCacheTTL == 0 {
		c.Registry.SearchCacheTTL = time.Hour
	}

	// Detection
	if c.Detection.SearchConcurrency == 0 {
		c.Detection.SearchConcurrency = 2
	}
	if c.Detection.MaxVariants == 0 {
		c.Detection.MaxVariants = 8
	}
	if c.Detection.MaxAggregated == 0 {
		c.Detection.MaxAggregated = 50
	}
	if c.Detection.InclusionThreshold == 0 {
		c.Detection.InclusionThreshold = 50
	}
	if c.Detection.ReportLimit == 0 {
		c.Detection.ReportLimit = 20
	}
	if c.Detection.VariantCacheTTL == 0 {
		c.Detection.VariantCacheTTL = 24 * time.Hour
	}

	// Redis
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.DefaultTTL == 0 {
		c.Redis.DefaultTTL = time.Hour
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "tmiq"
	}

	// Kafka
	if c.Kafka.ProducerRetries == 0 {
		c.Kafka.ProducerRetries = 3
	}
	if c.Kafka.BatchSize == 0 {
		c.Kafka.BatchSize = 100
	}
	if c.Kafka.TimeoutMS == 0 {
		c.Kafka.TimeoutMS = 10000
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "markiq-worker"
	}
	if c.Kafka.DeadLetterTopic == "" {
		c.Kafka.DeadLetterTopic = "dead_letter.detection"
	}

	// Database
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}
