package cache

import "time"

// RedisConfig configures the shared L2 cache. Zero fields take the default
// tag value.
type RedisConfig struct {
	Addr         string `default:"localhost:6379"`
	Password     string
	DB           int
	PoolSize     int           `default:"10"`
	MinIdleConns int           `default:"5"`
	PoolTimeout  time.Duration `default:"30s"`
	PingTimeout  time.Duration `default:"5s"`
	Prefix       string        `default:"regimeaudit"`
}

// MemoryConfig configures the process-local LRU.
type MemoryConfig struct {
	MaxEntries int           `default:"1000"`
	SweepEvery time.Duration `default:"5m"`
	// DefaultTTL applies to Set calls with a non-positive expiration.
	DefaultTTL time.Duration `default:"168h"`
}
