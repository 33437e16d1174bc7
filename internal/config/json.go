package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gaurav630/userhub/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "24h" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, set fields are copied into the
// runtime Config which uses time.Duration.
type JsonConfig struct {
	DatabaseDSN           string              `json:"database_dsn"`
	SecretKey             string              `json:"secret_key"`
	TokenValidityDuration timex.Duration      `json:"token_validity_duration"`
	StoreTimeout          timex.Duration      `json:"store_timeout"`
	BootstrapUsername     string              `json:"bootstrap_username"`
	BootstrapEmail        string              `json:"bootstrap_email"`
	BootstrapPassword     string              `json:"bootstrap_password"`
	Roles                 map[string][]string `json:"roles"`
}

// parseJson loads configuration values from the JSON file named by the
// USERHUB_CONFIG environment variable into the provided Config. If the
// variable is unset, nothing is loaded. If the file cannot be read or
// contains invalid JSON, the function panics: a broken config file is a
// deployment error, not something to limp past.
//
// Only fields present in the file override the current values.
func parseJson(config *Config) {
	jsonConfigFile := os.Getenv("USERHUB_CONFIG")

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = time.Duration(c.StoreTimeout.Duration)
	}
	if c.BootstrapUsername != "" {
		config.BootstrapUsername = c.BootstrapUsername
	}
	if c.BootstrapEmail != "" {
		config.BootstrapEmail = c.BootstrapEmail
	}
	if c.BootstrapPassword != "" {
		config.BootstrapPassword = c.BootstrapPassword
	}
	if len(c.Roles) > 0 {
		config.Roles = c.Roles
	}
}
