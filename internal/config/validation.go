package config

import (
	"fmt"
	"strings"
)

// ValidateFor checks that every value the given integration requires is
// present. It returns a ConfigurationErrorCollection when anything is missing.
func (c Config) ValidateFor(integration Integration) error {
	var errs ConfigurationErrorCollection
	source := string(integration)

	required := func(key, value, suggestion string) {
		if strings.TrimSpace(value) == "" {
			errs.Add(ConfigurationError{
				Source:      source,
				Key:         key,
				Message:     "is required",
				Suggestions: []string{suggestion},
			})
		}
	}

	required("MCPGATEWAY_URL", c.ControlPlane.URL, "Set MCPGATEWAY_URL to the control plane base URL")

	if c.Token.IsAsymmetric() {
		required("JWT_PRIVATE_KEY_PATH", c.Token.PrivateKeyPath,
			fmt.Sprintf("Algorithm %s signs with a private key; point JWT_PRIVATE_KEY_PATH at a PEM file", c.Token.Algorithm))
	}
	if c.Token.ExpiryMinutes <= 0 {
		errs.Add(ConfigurationError{
			Source:  source,
			Key:     "TOKEN_EXPIRY",
			Message: fmt.Sprintf("must be a positive number of minutes, got %d", c.Token.ExpiryMinutes),
		})
	}
	if c.Health.MaxAttempts <= 0 {
		errs.Add(ConfigurationError{
			Source:  source,
			Key:     "HEALTH_MAX_ATTEMPTS",
			Message: fmt.Sprintf("must be positive, got %d", c.Health.MaxAttempts),
		})
	}

	switch integration {
	case IntegrationMindsDB:
		required("MINDSDB_URL", c.MindsDB.URL, "Set MINDSDB_URL to the MindsDB HTTP API base URL")
		required("MINDSDB_USERNAME", c.MindsDB.Username, "Set MINDSDB_USERNAME and MINDSDB_PASSWORD")
		required("MINDSDB_PASSWORD", c.MindsDB.Password, "Set MINDSDB_USERNAME and MINDSDB_PASSWORD")
		if c.Discovery.Interval <= 0 || c.Discovery.Timeout < c.Discovery.Interval {
			errs.Add(ConfigurationError{
				Source:  source,
				Key:     "TOOL_DISCOVERY_TIMEOUT",
				Message: fmt.Sprintf("timeout %s must be at least one poll interval (%s)", c.Discovery.Timeout, c.Discovery.Interval),
			})
		}
	case IntegrationAtlassian:
		required("ATLASSIAN_OAUTH_CLIENT_ID", c.Atlassian.ClientID, "Create an OAuth 2.0 (3LO) app at developer.atlassian.com and set its client id")
		required("ATLASSIAN_OAUTH_CLIENT_SECRET", c.Atlassian.ClientSecret, "Set the client secret of the Atlassian OAuth 2.0 (3LO) app")
		required("MCF_DOMAIN", c.ControlPlane.Domain, "Set MCF_DOMAIN to the public host used for OAuth callbacks")
	default:
		errs.Add(ConfigurationError{
			Source:      source,
			Message:     "unknown integration",
			Suggestions: []string{fmt.Sprintf("Use one of: %s, %s", IntegrationMindsDB, IntegrationAtlassian)},
		})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
