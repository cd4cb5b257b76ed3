package config

import "time"

// Default values for configuration.
const (
	// Server defaults
	DefaultServerHost      = "0.0.0.0"
	DefaultServerPort      = 8080
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodySizeKB   = 256

	// Reply defaults
	DefaultQuoteLengthMax = 1024
	DefaultSessionCount   = 1

	// Cache defaults
	DefaultSnapshotTTL      = 24 * time.Hour
	DefaultCleanupInterval  = 1 * time.Hour
	DefaultForwardIndexSize = 10000

	// Events defaults
	DefaultEventsExchange = "replies"

	// Metrics defaults
	DefaultMetricsNamespace = "reply_tracker"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
