package registrar

import (
	"context"

	"forgeseed/internal/controlplane"
	"forgeseed/pkg/logging"
)

// GatewayResult is the outcome of GatewayRegistrar.Ensure.
type GatewayResult struct {
	ID      string
	Name    string
	Outcome Outcome
}

// GatewayRegistrar ensures exactly one gateway exists per name.
type GatewayRegistrar struct {
	client *controlplane.Client
}

// NewGatewayRegistrar creates a registrar backed by client.
func NewGatewayRegistrar(client *controlplane.Client) *GatewayRegistrar {
	return &GatewayRegistrar{client: client}
}

// Ensure looks the gateway up by name and creates it when absent. An
// existing bearer gateway is updated in place with the new token and URL,
// which keeps the tools already discovered under its id. Other existing
// gateways are returned unchanged.
//
// A failure to list gateways is logged and treated as "not found". A failed
// create returns *CreateError; a create response without an id returns
// *MissingIDError.
func (r *GatewayRegistrar) Ensure(ctx context.Context, desc controlplane.GatewayDescriptor) (GatewayResult, error) {
	existingID := r.find(ctx, desc.Name)

	if existingID != "" {
		if !desc.RotatesCredentials() {
			logging.Info("Gateway", "Gateway already exists: %s", existingID)
			return GatewayResult{ID: existingID, Name: desc.Name, Outcome: OutcomeExisting}, nil
		}

		err := r.client.UpdateGateway(ctx, existingID, controlplane.GatewayUpdate{
			AuthToken: desc.AuthToken,
			URL:       desc.URL,
		})
		if err != nil {
			// Recreating would orphan the discovered tools, so keep the
			// existing gateway with its previous credentials.
			logging.Warn("Gateway", "Update of gateway %s failed, keeping existing registration: %v", existingID, err)
			return GatewayResult{ID: existingID, Name: desc.Name, Outcome: OutcomeExisting}, nil
		}
		logging.Info("Gateway", "Updated existing gateway: %s", existingID)
		return GatewayResult{ID: existingID, Name: desc.Name, Outcome: OutcomeUpdated}, nil
	}

	created, err := r.client.CreateGateway(ctx, desc)
	if err != nil {
		logging.Error("Gateway", err, "Gateway registration failed: %s", desc.Name)
		return GatewayResult{Name: desc.Name, Outcome: OutcomeFailed}, &CreateError{Resource: "gateway", Name: desc.Name, Reason: err}
	}
	if created.ID == "" {
		logging.Error("Gateway", nil, "Gateway %s created but no 'id' in response", desc.Name)
		return GatewayResult{Name: desc.Name, Outcome: OutcomeFailed}, &MissingIDError{Resource: "gateway", Name: desc.Name}
	}

	logging.Info("Gateway", "Created gateway: %s", created.ID)
	return GatewayResult{ID: created.ID, Name: desc.Name, Outcome: OutcomeCreated}, nil
}

func (r *GatewayRegistrar) find(ctx context.Context, name string) string {
	gateways, err := r.client.ListGateways(ctx)
	if err != nil {
		logging.Warn("Gateway", "Could not list gateways, assuming %s is not registered: %v", name, err)
		return ""
	}
	for _, gw := range gateways {
		if gw.Name == name {
			return gw.ID
		}
	}
	return ""
}
