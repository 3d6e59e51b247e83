package config

import "time"

const (
	// DefaultOAuthCallbackPath is the control plane path that receives OAuth callbacks
	DefaultOAuthCallbackPath = "/oauth/callback"

	// DefaultAtlassianScopes is the scope list requested from Atlassian when none is configured
	DefaultAtlassianScopes = "read:jira-work,write:jira-work,read:jira-user," +
		"read:confluence-content.all,write:confluence-content," +
		"read:confluence-space.summary"
)

// Default returns the built-in configuration. Every value matches the
// documented default of the corresponding environment variable.
func Default() Config {
	return Config{
		ControlPlane: ControlPlaneConfig{
			URL:            "http://gateway:4444",
			Domain:         "localhost:4444",
			RequestTimeout: 30 * time.Second,
		},
		Token: TokenConfig{
			Algorithm:     "HS256",
			SecretKey:     "my-test-key",
			Audience:      "mcpgateway-api",
			Issuer:        "mcpgateway",
			AdminEmail:    "admin@apollosai.dev",
			ExpiryMinutes: 10080,
		},
		Health: HealthConfig{
			MaxAttempts:  60,
			Interval:     2 * time.Second,
			ProbeTimeout: 5 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Timeout:  120 * time.Second,
			Interval: 2 * time.Second,
		},
		MindsDB: MindsDBConfig{
			URL: "http://mindsdb:47334",
		},
		Atlassian: AtlassianConfig{
			Scopes: SplitScopes(DefaultAtlassianScopes),
		},
		Bitbucket: BitbucketConfig{
			MCPURL: "http://bitbucket-mcp-server:8000/mcp",
		},
	}
}
