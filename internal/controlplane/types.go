package controlplane

// Transport is the wire protocol the control plane uses to reach a gateway.
type Transport string

const (
	TransportSSE            Transport = "SSE"
	TransportStreamableHTTP Transport = "STREAMABLEHTTP"
)

// AuthType selects how the control plane authenticates to a gateway.
type AuthType string

const (
	// AuthTypeBearer uses a static token that is rotated on every run.
	AuthTypeBearer AuthType = "bearer"
	// AuthTypeOAuth uses per-user OAuth authorization code delegation.
	AuthTypeOAuth AuthType = "oauth"
)

// Visibility scopes who can see a resource.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	VisibilityTeam    Visibility = "team"
)

// OAuthConfig is the oauth_config block of an OAuth gateway.
type OAuthConfig struct {
	GrantType        string   `json:"grant_type"`
	Issuer           string   `json:"issuer,omitempty"`
	AuthorizationURL string   `json:"authorization_url"`
	TokenURL         string   `json:"token_url"`
	RedirectURI      string   `json:"redirect_uri"`
	Scopes           []string `json:"scopes"`
	ClientID         string   `json:"client_id"`
	ClientSecret     string   `json:"client_secret"`
}

// GatewayDescriptor is the desired state of a gateway, identified by Name.
type GatewayDescriptor struct {
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	Description string       `json:"description,omitempty"`
	Transport   Transport    `json:"transport"`
	AuthType    AuthType     `json:"auth_type"`
	AuthToken   string       `json:"auth_token,omitempty"`
	OAuthConfig *OAuthConfig `json:"oauth_config,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	Visibility  Visibility   `json:"visibility,omitempty"`
}

// RotatesCredentials reports whether an existing gateway with this
// descriptor must be updated in place on every run.
func (d GatewayDescriptor) RotatesCredentials() bool {
	return d.AuthType == AuthTypeBearer
}

// GatewayUpdate is the body of PUT /gateways/{id} used for credential rotation.
type GatewayUpdate struct {
	AuthToken string `json:"auth_token"`
	URL       string `json:"url"`
}

// Gateway is a gateway as listed by the control plane.
type Gateway struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Tool is a discovered tool. Tools are only ever read.
type Tool struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	GatewayID string `json:"gatewayId"`
}

// Team is a team as listed by the control plane.
type Team struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TeamDescriptor is the desired state of a team, identified by Slug.
type TeamDescriptor struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Visibility  Visibility `json:"visibility"`
}

// ServerDescriptor describes a virtual server with a caller-chosen,
// deterministic ID.
type ServerDescriptor struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	ToolIDs     []string
	// TeamID scopes the server to a team. Empty means unscoped.
	TeamID string
	// Visibility overrides the derived visibility when set.
	Visibility Visibility
}

// EffectiveVisibility returns the fixed visibility if one was set,
// otherwise "team" for team-scoped servers and "private" for the rest.
func (d ServerDescriptor) EffectiveVisibility() Visibility {
	if d.Visibility != "" {
		return d.Visibility
	}
	if d.TeamID != "" {
		return VisibilityTeam
	}
	return VisibilityPrivate
}

// ServerPayload is the JSON document for a virtual server. TeamID is
// omitted from the encoding when empty; the control plane rejects an
// explicit null.
type ServerPayload struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Tags            []string   `json:"tags"`
	AssociatedTools []string   `json:"associated_tools"`
	TeamID          string     `json:"team_id,omitempty"`
	Visibility      Visibility `json:"visibility"`
}

// ServerCreateRequest is the body of POST /servers.
type ServerCreateRequest struct {
	Server ServerPayload `json:"server"`
}

// Request converts the descriptor into its create request.
func (d ServerDescriptor) Request() ServerCreateRequest {
	tools := make([]string, 0, len(d.ToolIDs))
	tools = append(tools, d.ToolIDs...)
	tags := make([]string, 0, len(d.Tags))
	tags = append(tags, d.Tags...)

	return ServerCreateRequest{
		Server: ServerPayload{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			Tags:            tags,
			AssociatedTools: tools,
			TeamID:          d.TeamID,
			Visibility:      d.EffectiveVisibility(),
		},
	}
}
