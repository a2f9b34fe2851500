package config

import (
	"fmt"

	"github.com/kbukum/robusthttp/logger"
)

// Base contains the fields every application embedding a robusthttp client
// configuration needs. Projects extend it by embedding:
//
//	type AppConfig struct {
//	    config.Base `yaml:",inline" mapstructure:",squash"`
//	    Client      httpclient.Config `yaml:"client" mapstructure:"client"`
//	}
type Base struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
func (c *Base) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	c.Logging.ApplyDefaults()
}

// Validate validates base configuration.
func (c *Base) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config: name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	for _, v := range validEnvs {
		if c.Environment == v {
			return c.Logging.Validate()
		}
	}
	return fmt.Errorf("config: environment must be one of [development, staging, production] (got: %s)", c.Environment)
}
