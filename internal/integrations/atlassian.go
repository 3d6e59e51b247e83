package integrations

import (
	"strings"

	"golang.org/x/oauth2"

	"forgeseed/internal/config"
	"forgeseed/internal/controlplane"
	"forgeseed/internal/orchestrator"
)

const (
	RovoGatewayName      = "atlassian-rovo"
	BitbucketGatewayName = "atlassian-bitbucket"

	// AtlassianServerID is the fixed id of the admin-atlassian server.
	AtlassianServerID = "00000000-0000-0000-0000-0061746c6131"

	RovoMCPURL      = "https://mcp.atlassian.com/v1/mcp"
	AtlassianIssuer = "https://auth.atlassian.com"

	rovoKey      = "rovo"
	bitbucketKey = "bitbucket"
)

// AtlassianEndpoint is the OAuth 2.0 (3LO) endpoint of Atlassian Cloud.
var AtlassianEndpoint = oauth2.Endpoint{
	AuthURL:  "https://auth.atlassian.com/authorize?audience=api.atlassian.com",
	TokenURL: "https://auth.atlassian.com/oauth/token",
}

// BitbucketEndpoint is the OAuth 2.0 endpoint of Bitbucket Cloud.
var BitbucketEndpoint = oauth2.Endpoint{
	AuthURL:  "https://bitbucket.org/site/oauth2/authorize",
	TokenURL: "https://bitbucket.org/site/oauth2/access_token",
}

// OAuthGatewayConfig renders an oauth2.Config as the oauth_config block of
// an authorization code gateway. Scopes are always encoded as a list.
func OAuthGatewayConfig(oc oauth2.Config, issuer string) *controlplane.OAuthConfig {
	scopes := make([]string, 0, len(oc.Scopes))
	scopes = append(scopes, oc.Scopes...)

	return &controlplane.OAuthConfig{
		GrantType:        "authorization_code",
		Issuer:           issuer,
		AuthorizationURL: oc.Endpoint.AuthURL,
		TokenURL:         oc.Endpoint.TokenURL,
		RedirectURI:      oc.RedirectURL,
		Scopes:           scopes,
		ClientID:         oc.ClientID,
		ClientSecret:     oc.ClientSecret,
	}
}

// Atlassian returns the plan registering the Atlassian Rovo OAuth gateway
// and, when credentials are configured, the Bitbucket gateway.
func Atlassian(cfg config.Config) orchestrator.Plan {
	callback := cfg.ControlPlane.CallbackURL()

	rovo := oauth2.Config{
		ClientID:     cfg.Atlassian.ClientID,
		ClientSecret: cfg.Atlassian.ClientSecret,
		Endpoint:     AtlassianEndpoint,
		RedirectURL:  callback,
		Scopes:       cfg.Atlassian.Scopes,
	}
	bitbucket := oauth2.Config{
		ClientID:     cfg.Bitbucket.ClientID,
		ClientSecret: cfg.Bitbucket.ClientSecret,
		Endpoint:     BitbucketEndpoint,
		RedirectURL:  callback,
	}

	bitbucketStep := orchestrator.GatewayStep{
		Key:   bitbucketKey,
		Label: "Bitbucket",
		Descriptor: controlplane.GatewayDescriptor{
			Name: BitbucketGatewayName,
			URL:  cfg.Bitbucket.MCPURL,
			Description: "Custom Bitbucket Cloud MCP Server — repository, pull request, " +
				"and pipeline tools via Bitbucket OAuth",
			Transport:   controlplane.TransportStreamableHTTP,
			AuthType:    controlplane.AuthTypeOAuth,
			OAuthConfig: OAuthGatewayConfig(bitbucket, ""),
			Tags:        []string{"atlassian", "bitbucket", "git", "oauth"},
			Visibility:  controlplane.VisibilityPublic,
		},
		Optional:  true,
		Discovery: orchestrator.DiscoverOnce,
	}
	if !cfg.Bitbucket.Enabled() {
		bitbucketStep.SkipReason = "BITBUCKET_OAUTH_CLIENT_ID/SECRET not set"
	}

	return orchestrator.Plan{
		Integration: "Atlassian",
		TokenName:   "Atlassian Registration",
		HealthChecks: []orchestrator.HealthCheck{
			{Name: "Gateway", URL: strings.TrimSuffix(cfg.ControlPlane.URL, "/") + controlplane.PathHealth},
		},
		Gateways: []orchestrator.GatewayStep{
			{
				Key:   rovoKey,
				Label: "Atlassian Rovo",
				Descriptor: controlplane.GatewayDescriptor{
					Name: RovoGatewayName,
					URL:  RovoMCPURL,
					Description: "Atlassian Rovo MCP Server — Jira, Confluence, and Compass " +
						"tools via OAuth 2.0 (3LO) per-user delegation",
					Transport:   controlplane.TransportStreamableHTTP,
					AuthType:    controlplane.AuthTypeOAuth,
					OAuthConfig: OAuthGatewayConfig(rovo, AtlassianIssuer),
					Tags:        []string{"atlassian", "jira", "confluence", "compass", "oauth"},
					Visibility:  controlplane.VisibilityPublic,
				},
				Discovery: orchestrator.DiscoverOnce,
			},
			bitbucketStep,
		},
		Servers: func(state orchestrator.State) []controlplane.ServerDescriptor {
			return []controlplane.ServerDescriptor{{
				ID:   AtlassianServerID,
				Name: "admin-atlassian",
				Description: "Atlassian tools — Jira issue management, Confluence page " +
					"search and creation, and Compass service catalog. " +
					"Users access tools scoped to their own Atlassian permissions " +
					"via per-user OAuth delegation.",
				Tags:       []string{"atlassian", "jira", "confluence"},
				ToolIDs:    state.ToolIDs(rovoKey, bitbucketKey),
				Visibility: controlplane.VisibilityPublic,
			}}
		},
		Notes: func(state orchestrator.State) []string {
			if len(state.Tools[rovoKey]) > 0 {
				return nil
			}
			return []string{
				"No tools were discovered yet. A user must complete the OAuth consent flow " +
					"at the admin UI before tools appear: " + cfg.ControlPlane.AdminGatewaysURL(),
			}
		},
	}
}
