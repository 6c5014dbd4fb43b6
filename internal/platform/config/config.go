package config

import (
	"os"
	"time"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	LogLevel    string
}

// RedisConfig holds the optional credential-cache connection settings.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CredentialCacheTTL bounds how long an authenticated credential lookup may
// be served from cache. Kept short so a credential reset takes effect fast
// even if explicit invalidation is missed.
var CredentialCacheTTL = 2 * time.Minute

// FromEnv builds a Server config from environment variables.
// An empty DATABASE_URL selects the in-memory stores; an empty REDIS_URL
// disables the credential cache.
func FromEnv() Server {
	addr := os.Getenv("HINDSIGHT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		LogLevel: os.Getenv("LOG_LEVEL"),
	}
}
