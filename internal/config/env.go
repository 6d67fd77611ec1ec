package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of all override variables.
const EnvPrefix = "PRICESTAMP"

// EnvOverrides are read from PRICESTAMP_* variables and win over the YAML file.
type EnvOverrides struct {
	Input      string `envconfig:"INPUT"`
	APIBaseURL string `envconfig:"API_BASE_URL"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	DBPassword string `envconfig:"ARCHIVE_DB_PASSWORD"`
}

func (c *Config) applyEnv() error {
	var env EnvOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("read environment overrides: %w", err)
	}

	if env.Input != "" {
		c.Input.Path = env.Input
	}
	if env.APIBaseURL != "" {
		c.API.BaseURL = env.APIBaseURL
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.DBPassword != "" {
		c.Archive.Database.Password = env.DBPassword
	}
	return nil
}
