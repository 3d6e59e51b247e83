package registrar

import (
	"context"

	"forgeseed/internal/controlplane"
	"forgeseed/pkg/logging"
)

// ServerResult is the outcome of creating one virtual server.
type ServerResult struct {
	ID      string
	Name    string
	Tools   int
	Outcome Outcome
	Err     error
}

// ServerComposer creates virtual servers under caller-chosen ids.
type ServerComposer struct {
	client *controlplane.Client
}

// NewServerComposer creates a composer backed by client.
func NewServerComposer(client *controlplane.Client) *ServerComposer {
	return &ServerComposer{client: client}
}

// Ensure attempts every descriptor independently. A 409 Conflict means the
// server already exists and counts as success. Any other failure is logged
// and recorded in the result; the remaining descriptors are still tried.
func (c *ServerComposer) Ensure(ctx context.Context, descs []controlplane.ServerDescriptor) []ServerResult {
	results := make([]ServerResult, 0, len(descs))
	for _, desc := range descs {
		results = append(results, c.ensureOne(ctx, desc))
	}
	return results
}

func (c *ServerComposer) ensureOne(ctx context.Context, desc controlplane.ServerDescriptor) ServerResult {
	result := ServerResult{ID: desc.ID, Name: desc.Name, Tools: len(desc.ToolIDs)}

	err := c.client.CreateServer(ctx, desc)
	switch {
	case err == nil:
		logging.Info("Servers", "Created virtual server: %s (%s)", desc.Name, desc.ID)
		result.Outcome = OutcomeCreated
	case controlplane.IsConflict(err):
		logging.Info("Servers", "Virtual server exists: %s (%s)", desc.Name, desc.ID)
		result.Outcome = OutcomeExisting
	default:
		logging.Warn("Servers", "Failed to create %s: %v", desc.Name, err)
		result.Outcome = OutcomeFailed
		result.Err = err
	}
	return result
}
