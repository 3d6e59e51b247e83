package config

import (
	"net"
	"strings"
	"time"
)

// Config is the complete configuration of one registration run. It is
// constructed once by Load and never mutated afterwards.
type Config struct {
	ControlPlane ControlPlaneConfig `yaml:"controlPlane"`
	Token        TokenConfig        `yaml:"token"`
	Health       HealthConfig       `yaml:"health"`
	Discovery    DiscoveryConfig    `yaml:"discovery"`
	MindsDB      MindsDBConfig      `yaml:"mindsdb"`
	Atlassian    AtlassianConfig    `yaml:"atlassian"`
	Bitbucket    BitbucketConfig    `yaml:"bitbucket"`
}

// ControlPlaneConfig describes how to reach the control plane REST API.
type ControlPlaneConfig struct {
	URL            string        `yaml:"url,omitempty"`            // Base URL of the control plane (default: http://gateway:4444)
	Domain         string        `yaml:"domain,omitempty"`         // Public host[:port] used for OAuth callbacks (default: localhost:4444)
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"` // Per-call timeout (default: 30s)
}

// PublicScheme infers the scheme of the public domain: http for loopback
// and wildcard hosts, https for everything else.
func (c ControlPlaneConfig) PublicScheme() string {
	host := c.Domain
	if h, _, err := net.SplitHostPort(c.Domain); err == nil {
		host = h
	} else if i := strings.Index(c.Domain, ":"); i >= 0 {
		host = c.Domain[:i]
	}
	switch host {
	case "localhost", "127.0.0.1", "0.0.0.0":
		return "http"
	default:
		return "https"
	}
}

// CallbackURL returns the OAuth redirect URI served by the control plane.
func (c ControlPlaneConfig) CallbackURL() string {
	return c.PublicScheme() + "://" + c.Domain + DefaultOAuthCallbackPath
}

// AdminGatewaysURL returns the admin UI page where operators complete the
// OAuth consent for a gateway.
func (c ControlPlaneConfig) AdminGatewaysURL() string {
	return c.PublicScheme() + "://" + c.Domain + "/admin/gateways"
}

// TokenConfig holds the JWT parameters used to mint the admin token.
type TokenConfig struct {
	Algorithm      string `yaml:"algorithm,omitempty"`
	SecretKey      string `yaml:"secretKey,omitempty"`
	PrivateKeyPath string `yaml:"privateKeyPath,omitempty"`
	Audience       string `yaml:"audience,omitempty"`
	Issuer         string `yaml:"issuer,omitempty"`
	AdminEmail     string `yaml:"adminEmail,omitempty"`
	ExpiryMinutes  int    `yaml:"expiryMinutes,omitempty"`
}

// IsAsymmetric reports whether the configured algorithm signs with a
// private key loaded from PrivateKeyPath.
func (t TokenConfig) IsAsymmetric() bool {
	alg := strings.ToUpper(t.Algorithm)
	return strings.HasPrefix(alg, "RS") || strings.HasPrefix(alg, "PS") || strings.HasPrefix(alg, "ES")
}

// HealthConfig bounds the health waits at the start of a run.
type HealthConfig struct {
	MaxAttempts  int           `yaml:"maxAttempts,omitempty"`
	Interval     time.Duration `yaml:"interval,omitempty"`
	ProbeTimeout time.Duration `yaml:"probeTimeout,omitempty"`
}

// DiscoveryConfig bounds tool discovery polling.
type DiscoveryConfig struct {
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Interval time.Duration `yaml:"interval,omitempty"`
}

// MindsDBConfig configures the MindsDB integration.
type MindsDBConfig struct {
	URL      string `yaml:"url,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// AtlassianConfig configures the Atlassian Rovo OAuth (3LO) gateway.
type AtlassianConfig struct {
	ClientID     string   `yaml:"clientId,omitempty"`
	ClientSecret string   `yaml:"clientSecret,omitempty"`
	Scopes       []string `yaml:"scopes,omitempty"`
}

// BitbucketConfig configures the optional Bitbucket gateway. The gateway is
// only registered when both ClientID and ClientSecret are set.
type BitbucketConfig struct {
	ClientID     string `yaml:"clientId,omitempty"`
	ClientSecret string `yaml:"clientSecret,omitempty"`
	MCPURL       string `yaml:"mcpUrl,omitempty"`
}

// Enabled reports whether Bitbucket credentials are present.
func (b BitbucketConfig) Enabled() bool {
	return b.ClientID != "" && b.ClientSecret != ""
}

// Integration names a built-in registration pipeline.
type Integration string

const (
	IntegrationMindsDB   Integration = "mindsdb"
	IntegrationAtlassian Integration = "atlassian"
)

// SplitScopes splits a comma separated scope list, trimming whitespace and
// dropping empty entries.
func SplitScopes(raw string) []string {
	var scopes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
