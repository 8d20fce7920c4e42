// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// JSONConfigEnvVar is the environment variable holding a JSON config override.
const JSONConfigEnvVar = "CARGOLINK_ADMIN_CONFIG_JSON"

// ReadConfig loads main.toml from the given directory (./etc/ by default),
// applies the JSON override from the environment and validates the result.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	var c Config
	if _, err := toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	if override := os.Getenv(JSONConfigEnvVar); override != "" {
		if err := json.Unmarshal([]byte(override), &c); err != nil {
			return Config{}, errors.Wrap(err, "failed to merge json config override")
		}
	}

	return c, validate(&c)
}

// DumpConfig renders the config as a TOML string.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	if err := toml.NewEncoder(&buffer).Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON renders the config as an indented JSON string.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer

	enc := json.NewEncoder(&buffer)
	enc.SetIndent("", "  ")

	if err := enc.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the daemon cannot start without and fills the
// defaults for the rest.
func validate(c *Config) error {
	const invalidErrMessage = "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = 5 // seconds
	}

	switch c.DB.Engine {
	case "":
		c.DB.Engine = EngineMySQL
	case EngineMySQL, EnginePostgres:
	default:
		return errors.Wrap(ErrUnknownDBEngine, invalidErrMessage)
	}

	return nil
}
