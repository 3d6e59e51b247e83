package controlplane

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Resource collection paths.
const (
	PathHealth   = "/health"
	PathGateways = "/gateways"
	PathTools    = "/tools"
	PathTeams    = "/teams/"
	PathServers  = "/servers"
)

// decodeList accepts either a bare JSON array or an object wrapping the
// array under one of keys. Elements that do not decode into T are skipped.
func decodeList[T any](raw json.RawMessage, keys ...string) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil
		}
		for _, key := range keys {
			if inner, ok := wrapped[key]; ok {
				if err := json.Unmarshal(inner, &elems); err == nil {
					break
				}
			}
		}
	}

	out := make([]T, 0, len(elems))
	for _, elem := range elems {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (c *Client) list(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListGateways returns all gateways visible to the token.
func (c *Client) ListGateways(ctx context.Context) ([]Gateway, error) {
	raw, err := c.list(ctx, PathGateways)
	if err != nil {
		return nil, err
	}
	return decodeList[Gateway](raw, "items", "gateways"), nil
}

// CreateGateway registers a new gateway and returns the created resource.
// The returned ID may be empty if the control plane omitted it.
func (c *Client) CreateGateway(ctx context.Context, desc GatewayDescriptor) (Gateway, error) {
	var created Gateway
	err := c.Do(ctx, http.MethodPost, PathGateways, desc, &created)
	return created, err
}

// UpdateGateway updates the connection details of an existing gateway.
func (c *Client) UpdateGateway(ctx context.Context, id string, update GatewayUpdate) error {
	return c.Do(ctx, http.MethodPut, PathGateways+"/"+url.PathEscape(id), update, nil)
}

// ListTools returns all tools. A response that is not a list yields an
// empty slice.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	raw, err := c.list(ctx, PathTools)
	if err != nil {
		return nil, err
	}
	return decodeList[Tool](raw), nil
}

// ListTeams returns all teams. Both a bare array and an object with
// "items" or "teams" are accepted.
func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	raw, err := c.list(ctx, PathTeams)
	if err != nil {
		return nil, err
	}
	return decodeList[Team](raw, "items", "teams"), nil
}

// CreateTeam creates a team and returns it.
func (c *Client) CreateTeam(ctx context.Context, desc TeamDescriptor) (Team, error) {
	var created Team
	err := c.Do(ctx, http.MethodPost, PathTeams, desc, &created)
	return created, err
}

// CreateServer creates a virtual server.
func (c *Client) CreateServer(ctx context.Context, desc ServerDescriptor) error {
	return c.Do(ctx, http.MethodPost, PathServers, desc.Request(), nil)
}
