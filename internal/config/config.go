// Package config handles configuration for the auth core, including
// defaults, an optional JSON overlay, and environment variables.
package config

import "time"

// Config holds runtime settings for the userhub core.
//
// Fields:
//   - DatabaseDSN: postgres:// DSN (pgx) or a SQLite file path.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     the default in production.
//   - TokenValidityDuration: session token lifetime.
//   - StoreTimeout: upper bound on any single store operation.
//   - BootstrapUsername / BootstrapEmail / BootstrapPassword: the privileged
//     user seeded on first initialization. The default secret is a
//     deployment convenience an operator is expected to change immediately.
//   - Roles: role name -> permission list table, fixed at startup.
type Config struct {
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	StoreTimeout          time.Duration
	BootstrapUsername     string
	BootstrapEmail        string
	BootstrapPassword     string
	Roles                 map[string][]string
}

// DefaultRoles returns the stock role-permission table.
func DefaultRoles() map[string][]string {
	return map[string][]string{
		"Root":    {"ALL"},
		"Admin":   {"VIEW_USERS", "ADD_USER", "EDIT_USER", "DELETE_USER", "VIEW_LOGS"},
		"Manager": {"VIEW_USERS", "ADD_USER", "EDIT_USER", "VIEW_LOGS"},
		"User":    {"VIEW_PROFILE", "EDIT_PROFILE"},
		"Viewer":  {"VIEW_PROFILE"},
	}
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "file:userhub.db?_foreign_keys=on"
	c.SecretKey = "your-secret-key-change-in-production"
	c.TokenValidityDuration = 24 * time.Hour
	c.StoreTimeout = 5 * time.Second
	c.BootstrapUsername = "root"
	c.BootstrapEmail = "root@admin.com"
	c.BootstrapPassword = "root123"
	c.Roles = DefaultRoles()
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from environment variables.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	return cfg
}
