package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "24h" strings and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	SecretKey       string         `json:"secret_key"`
	TokenValidity   timex.Duration `json:"token_validity"`
	TokenLeeway     timex.Duration `json:"token_leeway"`
	BcryptCost      int            `json:"bcrypt_cost"`
	LogLevel        string         `json:"log_level"`
	LogFormat       string         `json:"log_format"`
	CORSOrigins     []string       `json:"cors_origins"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c or -config, if any. Keys missing from
// the file keep their current value.
func parseJson(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	if c.TokenValidity.Duration != 0 {
		config.TokenValidity = c.TokenValidity.Duration
	}
	if c.TokenLeeway.Duration != 0 {
		config.TokenLeeway = c.TokenLeeway.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
