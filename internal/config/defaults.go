package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel      = "error"
	DefaultJSONLog       = false
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultMaxAttempts   = 5
	DefaultTimeout       = 15 * time.Second
	DefaultMinBackoff    = 1500 * time.Millisecond
	DefaultMaxBackoff    = 3500 * time.Millisecond
	DefaultConcurrency   = 1 // sequential; 0 sizes the pool from the proxy count
	DefaultPerProxyRPS   = 0.0
	DefaultPerProxyBurst = 1
	EnvPrefix            = "PRICEFEED"
)
