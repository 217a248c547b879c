package remote

import "time"

// Config holds connection and behavior settings for the remote store.
type Config struct {
	// URL is the Redis connection URL (e.g. redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// DialTimeout bounds initial connection establishment. After this the
	// adapter enters fallback mode for the life of the process.
	DialTimeout time.Duration

	// PingInterval is how often connectivity is probed once ready.
	PingInterval time.Duration

	// KeyPrefix namespaces every key and channel this store touches.
	KeyPrefix string
}

// DefaultConfig returns sensible defaults for the remote store.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		PingInterval: 15 * time.Second,
		KeyPrefix:    "golfsync",
	}
}
