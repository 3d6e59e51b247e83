package orchestrator

import (
	"context"
	"net/http"

	"forgeseed/internal/controlplane"
	"forgeseed/internal/discovery"
	"forgeseed/internal/registrar"
)

// DiscoveryMode selects how tools of a gateway are found.
type DiscoveryMode int

const (
	// DiscoverNone skips tool discovery.
	DiscoverNone DiscoveryMode = iota
	// DiscoverPoll waits for the required capability to appear.
	DiscoverPoll
	// DiscoverOnce lists tools a single time. Used for OAuth gateways whose
	// tools only appear after user consent.
	DiscoverOnce
)

// HealthCheck is a service that must answer 200 OK before the run starts.
type HealthCheck struct {
	Name string
	URL  string
}

// LoginFunc exchanges credentials of the integrated system for a session
// token that a bearer gateway presents to it.
type LoginFunc func(ctx context.Context, httpClient *http.Client) (string, error)

// GatewayStep registers one gateway and discovers its tools.
type GatewayStep struct {
	// Key identifies the gateway inside State.
	Key string
	// Label is the human readable name used in logs and the summary.
	Label      string
	Descriptor controlplane.GatewayDescriptor
	// UseLoginToken sets the descriptor's bearer token to the session token
	// returned by Plan.Login.
	UseLoginToken bool
	// Optional gateways never fail the run when their creation fails.
	Optional bool
	// SkipReason, when set, skips the gateway entirely.
	SkipReason string
	Discovery  DiscoveryMode
	// Classifier is used with DiscoverPoll.
	Classifier discovery.Classifier
}

// Plan is the declarative description of one integration.
type Plan struct {
	// Integration is the display name, e.g. "MindsDB".
	Integration string
	// TokenName is the full_name claim of the admin token.
	TokenName    string
	HealthChecks []HealthCheck
	// Login is optional.
	Login     LoginFunc
	LoginName string
	Gateways  []GatewayStep
	Teams     []controlplane.TeamDescriptor
	// Servers builds the virtual servers from what was discovered.
	Servers func(State) []controlplane.ServerDescriptor
	// Notes adds free-form lines to the summary.
	Notes func(State) []string
}

// State is what the pipeline learned so far. Plans read it to build
// virtual servers and notes.
type State struct {
	Gateways map[string]registrar.GatewayResult
	ToolSets map[string]discovery.ToolSet
	Tools    map[string][]string
	Teams    map[string]registrar.TeamResult
}

func newState() State {
	return State{
		Gateways: make(map[string]registrar.GatewayResult),
		ToolSets: make(map[string]discovery.ToolSet),
		Tools:    make(map[string][]string),
		Teams:    make(map[string]registrar.TeamResult),
	}
}

// GatewayID returns the id registered for key, or "".
func (s State) GatewayID(key string) string {
	return s.Gateways[key].ID
}

// TeamID returns the id of the team with slug, or "" when it could not be
// provisioned.
func (s State) TeamID(slug string) string {
	return s.Teams[slug].ID
}

// ToolIDs concatenates the discovered tool ids of the given gateways in
// order. The result is never nil.
func (s State) ToolIDs(keys ...string) []string {
	ids := []string{}
	for _, key := range keys {
		ids = append(ids, s.Tools[key]...)
	}
	return ids
}
