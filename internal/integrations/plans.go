package integrations

import (
	"fmt"

	"forgeseed/internal/config"
	"forgeseed/internal/orchestrator"
)

// ForName returns the plan of a named integration.
func ForName(name config.Integration, cfg config.Config) (orchestrator.Plan, error) {
	switch name {
	case config.IntegrationMindsDB:
		return MindsDB(cfg), nil
	case config.IntegrationAtlassian:
		return Atlassian(cfg), nil
	default:
		return orchestrator.Plan{}, fmt.Errorf("unknown integration %q", name)
	}
}
