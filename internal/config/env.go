package config

import (
	"os"
	"time"
)

// parseEnv populates selected Config fields from environment variables.
//
// Supported variables:
//
//	DATABASE_DSN   database DSN (postgres:// or a SQLite file path)
//	SECRET_KEY     token signing secret
//	TOKEN_TTL      token lifetime, Go duration syntax (e.g. "24h")
//	STORE_TIMEOUT  store operation timeout, Go duration syntax
//
// Malformed durations panic for the same reason parseJson does.
func parseEnv(config *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.StoreTimeout = d
	}
}
