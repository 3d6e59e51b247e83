package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"forgeseed/pkg/logging"

	"gopkg.in/yaml.v3"
)

// LookupFunc resolves an environment variable. os.LookupEnv is used in
// production; tests pass a map-backed function.
type LookupFunc func(key string) (string, bool)

// Load builds the run configuration from the defaults, the optional YAML
// file at configPath and the process environment, in that order.
func Load(configPath string) (Config, error) {
	return LoadWithLookup(configPath, os.LookupEnv)
}

// LoadWithLookup is Load with an injectable environment.
func LoadWithLookup(configPath string, lookup LookupFunc) (Config, error) {
	config := Default()

	if configPath != "" {
		if err := mergeFile(&config, configPath); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&config, lookup); err != nil {
		return Config{}, err
	}

	return config, nil
}

func mergeFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ConfigurationError{
				Source:      "file",
				Key:         configPath,
				Message:     "config file does not exist",
				Suggestions: []string{"Check the --config path or omit it to use defaults and environment variables"},
			}
		}
		return fmt.Errorf("error reading config from %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return ConfigurationError{
			Source:  "file",
			Key:     configPath,
			Message: fmt.Sprintf("malformed YAML: %v", err),
		}
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configPath)
	return nil
}

type envBinding struct {
	key   string
	apply func(c *Config, value string) error
}

func stringVar(dst func(c *Config) *string) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		*dst(c) = value
		return nil
	}
}

func intVar(dst func(c *Config) *int) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", value)
		}
		*dst(c) = n
		return nil
	}
}

// secondsVar accepts a plain integer number of seconds or a Go duration
// string such as "90s".
func secondsVar(dst func(c *Config) *time.Duration) func(c *Config, value string) error {
	return func(c *Config, value string) error {
		value = strings.TrimSpace(value)
		if n, err := strconv.Atoi(value); err == nil {
			*dst(c) = time.Duration(n) * time.Second
			return nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("expected seconds or a duration, got %q", value)
		}
		*dst(c) = d
		return nil
	}
}

var envBindings = []envBinding{
	{"MCPGATEWAY_URL", stringVar(func(c *Config) *string { return &c.ControlPlane.URL })},
	{"MCF_DOMAIN", stringVar(func(c *Config) *string { return &c.ControlPlane.Domain })},
	{"MINDSDB_URL", stringVar(func(c *Config) *string { return &c.MindsDB.URL })},
	{"MINDSDB_USERNAME", stringVar(func(c *Config) *string { return &c.MindsDB.Username })},
	{"MINDSDB_PASSWORD", stringVar(func(c *Config) *string { return &c.MindsDB.Password })},
	{"ATLASSIAN_OAUTH_CLIENT_ID", stringVar(func(c *Config) *string { return &c.Atlassian.ClientID })},
	{"ATLASSIAN_OAUTH_CLIENT_SECRET", stringVar(func(c *Config) *string { return &c.Atlassian.ClientSecret })},
	{"ATLASSIAN_OAUTH_SCOPES", func(c *Config, value string) error {
		c.Atlassian.Scopes = SplitScopes(value)
		return nil
	}},
	{"BITBUCKET_OAUTH_CLIENT_ID", stringVar(func(c *Config) *string { return &c.Bitbucket.ClientID })},
	{"BITBUCKET_OAUTH_CLIENT_SECRET", stringVar(func(c *Config) *string { return &c.Bitbucket.ClientSecret })},
	{"BITBUCKET_MCP_URL", stringVar(func(c *Config) *string { return &c.Bitbucket.MCPURL })},
	{"JWT_ALGORITHM", stringVar(func(c *Config) *string { return &c.Token.Algorithm })},
	{"JWT_SECRET_KEY", stringVar(func(c *Config) *string { return &c.Token.SecretKey })},
	{"JWT_PRIVATE_KEY_PATH", stringVar(func(c *Config) *string { return &c.Token.PrivateKeyPath })},
	{"JWT_AUDIENCE", stringVar(func(c *Config) *string { return &c.Token.Audience })},
	{"JWT_ISSUER", stringVar(func(c *Config) *string { return &c.Token.Issuer })},
	{"PLATFORM_ADMIN_EMAIL", stringVar(func(c *Config) *string { return &c.Token.AdminEmail })},
	{"TOKEN_EXPIRY", intVar(func(c *Config) *int { return &c.Token.ExpiryMinutes })},
	{"TOOL_DISCOVERY_TIMEOUT", secondsVar(func(c *Config) *time.Duration { return &c.Discovery.Timeout })},
	{"TOOL_DISCOVERY_INTERVAL", secondsVar(func(c *Config) *time.Duration { return &c.Discovery.Interval })},
	{"HEALTH_MAX_ATTEMPTS", intVar(func(c *Config) *int { return &c.Health.MaxAttempts })},
	{"HEALTH_INTERVAL", secondsVar(func(c *Config) *time.Duration { return &c.Health.Interval })},
}

func applyEnv(config *Config, lookup LookupFunc) error {
	var errs ConfigurationErrorCollection
	for _, b := range envBindings {
		value, ok := lookup(b.key)
		if !ok {
			continue
		}
		if err := b.apply(config, value); err != nil {
			errs.Add(ConfigurationError{
				Source:  "env",
				Key:     b.key,
				Message: err.Error(),
			})
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
