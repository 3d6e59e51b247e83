package integrations

import (
	"context"
	"net/http"
	"strings"

	"forgeseed/internal/config"
	"forgeseed/internal/controlplane"
	"forgeseed/internal/discovery"
	"forgeseed/internal/orchestrator"
)

const (
	MindsDBGatewayName = "mindsdb"

	// Fixed virtual server ids. The last group spells the server in hex.
	LegalServerID = "00000000-0000-0000-0000-00006c656731"
	HRServerID    = "00000000-0000-0000-0000-006872303031"
	AdminServerID = "00000000-0000-0000-0000-00006d696e64"

	mindsdbKey = "mindsdb"
)

// DataGatewayClassifier recognises the query and list_databases tools of a
// MindsDB gateway.
var DataGatewayClassifier = discovery.Classifier{
	Required: discovery.QueryRule,
	Optional: discovery.ListDatabasesRule,
}

// MindsDBTeams are the department teams provisioned for the data gateway.
var MindsDBTeams = []controlplane.TeamDescriptor{
	{Name: "Legal", Slug: "legal", Description: "Legal department team", Visibility: controlplane.VisibilityPrivate},
	{Name: "HR", Slug: "hr", Description: "Human Resources department team", Visibility: controlplane.VisibilityPrivate},
}

// MindsDB returns the plan registering MindsDB as a bearer-token gateway.
func MindsDB(cfg config.Config) orchestrator.Plan {
	mindsdbURL := strings.TrimSuffix(cfg.MindsDB.URL, "/")

	return orchestrator.Plan{
		Integration: "MindsDB",
		TokenName:   "MindsDB Registration",
		HealthChecks: []orchestrator.HealthCheck{
			{Name: "Gateway", URL: strings.TrimSuffix(cfg.ControlPlane.URL, "/") + controlplane.PathHealth},
			{Name: "MindsDB", URL: mindsdbURL + "/api/status"},
		},
		LoginName: "MindsDB",
		Login: func(ctx context.Context, httpClient *http.Client) (string, error) {
			return LoginMindsDB(ctx, httpClient, mindsdbURL, cfg.MindsDB.Username, cfg.MindsDB.Password)
		},
		Gateways: []orchestrator.GatewayStep{{
			Key:   mindsdbKey,
			Label: "MindsDB",
			Descriptor: controlplane.GatewayDescriptor{
				Name: MindsDBGatewayName,
				URL:  mindsdbURL + "/mcp/sse",
				Description: "MindsDB federated data gateway — query databases, warehouses, " +
					"knowledge bases, and SaaS applications via SQL",
				Transport:  controlplane.TransportSSE,
				AuthType:   controlplane.AuthTypeBearer,
				Tags:       []string{"data-gateway", "knowledge-base", "sql", "mindsdb"},
				Visibility: controlplane.VisibilityPrivate,
			},
			UseLoginToken: true,
			Discovery:     orchestrator.DiscoverPoll,
			Classifier:    DataGatewayClassifier,
		}},
		Teams:   MindsDBTeams,
		Servers: mindsdbServers,
	}
}

func mindsdbServers(state orchestrator.State) []controlplane.ServerDescriptor {
	tools := state.ToolSets[mindsdbKey]

	queryOnly := []string{}
	if tools.Required != "" {
		queryOnly = append(queryOnly, tools.Required)
	}

	return []controlplane.ServerDescriptor{
		{
			ID:   LegalServerID,
			Name: "legal-team-data",
			Description: "Legal department Knowledge Base access. " +
				"Query tool available for semantic search over legal documents.",
			Tags:    []string{"legal", "knowledge-base"},
			ToolIDs: queryOnly,
			TeamID:  state.TeamID("legal"),
		},
		{
			ID:   HRServerID,
			Name: "hr-team-data",
			Description: "HR department Knowledge Base access. " +
				"Query tool available for semantic search over HR documents.",
			Tags:    []string{"hr", "knowledge-base"},
			ToolIDs: queryOnly,
			TeamID:  state.TeamID("hr"),
		},
		{
			ID:   AdminServerID,
			Name: "admin-data-gateway",
			Description: "Full access to all MindsDB databases and knowledge bases. " +
				"Use list_databases to see available sources, and query to execute any SQL.",
			Tags:       []string{"admin", "data-gateway"},
			ToolIDs:    tools.IDs(),
			Visibility: controlplane.VisibilityPrivate,
		},
	}
}
