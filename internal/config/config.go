// Package config loads runtime configuration from environment variables.
// A .env file is loaded by the CLI entrypoint before this runs.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Engine   EngineConfig
	Database DatabaseConfig
	Web      WebConfig
}

type EngineConfig struct {
	DescriptorDim      int     // descriptor dimensionality (default 128)
	MatchThreshold     float64 // max Euclidean distance for a match (default 0.6)
	GraceBeforeMinutes int     // check-in grace window before office start (default 120)
	LockWaitMillis     int     // per-key session lock wait bound (default 2000)
	Timezone           string  // IANA zone for calendar-day session keys (default local)
	UseANNIndex        bool    // use the HNSW index instead of brute-force matching
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty enables in-memory demo mode
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Host          string // bind host (default 0.0.0.0)
	Port          int    // listen port (default 8080)
	RatePerSecond int    // attendance endpoint rate limit (default 20)
	RateBurst     int    // rate limiter burst (default 40)
	SeedPath      string // optional YAML seed file for demo mode
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean flag.
func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func Load() *Config {
	return &Config{
		Engine: EngineConfig{
			DescriptorDim:      envInt("DESCRIPTOR_DIM", 128),
			MatchThreshold:     envFloat("MATCH_THRESHOLD", 0.6),
			GraceBeforeMinutes: envInt("GRACE_BEFORE_MINUTES", 120),
			LockWaitMillis:     envInt("SESSION_LOCK_WAIT_MS", 2000),
			Timezone:           os.Getenv("ATTENDANCE_TIMEZONE"),
			UseANNIndex:        envBool("USE_ANN_INDEX"),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Host:          envOr("WEB_HOST", "0.0.0.0"),
			Port:          envInt("WEB_PORT", 8080),
			RatePerSecond: envInt("ATTENDANCE_RATE_PER_SECOND", 20),
			RateBurst:     envInt("ATTENDANCE_RATE_BURST", 40),
			SeedPath:      os.Getenv("SEED_PATH"),
		},
	}
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
