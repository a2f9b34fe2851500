// Package config loads robusthttp client configuration from YAML files and
// environment variables.
//
// Applications embed Base alongside their client settings and load everything
// with one call:
//
//	type AppConfig struct {
//	    config.Base `yaml:",inline" mapstructure:",squash"`
//	    Client      httpclient.Config `yaml:"client" mapstructure:"client"`
//	}
//
//	var cfg AppConfig
//	err := config.Load("payments", &cfg)
//
// Load resolves config.yml and .env files from conventional locations,
// binds environment variables (CLIENT_BASE_URL maps to client.base_url), and
// unmarshals the merged result.
package config
