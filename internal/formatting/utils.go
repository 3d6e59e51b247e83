package formatting

import (
	"fmt"
	"strings"

	"forgeseed/internal/orchestrator"
	"forgeseed/internal/registrar"
)

// Report is the serializable form of a Summary.
type Report struct {
	Integration string          `json:"integration" yaml:"integration"`
	Gateways    []GatewayReport `json:"gateways" yaml:"gateways"`
	Teams       []ItemReport    `json:"teams" yaml:"teams"`
	Servers     []ItemReport    `json:"servers" yaml:"servers"`
	Notes       []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// GatewayReport describes one gateway and its discovered tools.
type GatewayReport struct {
	Label   string   `json:"label" yaml:"label"`
	Name    string   `json:"name" yaml:"name"`
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Outcome string   `json:"outcome" yaml:"outcome"`
	Tools   []string `json:"tools" yaml:"tools"`
	Reason  string   `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ItemReport describes a team or virtual server.
type ItemReport struct {
	Name    string `json:"name" yaml:"name"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Outcome string `json:"outcome" yaml:"outcome"`
	Tools   *int   `json:"tools,omitempty" yaml:"tools,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport converts a Summary into a Report.
func NewReport(s orchestrator.Summary) Report {
	r := Report{
		Integration: s.Integration,
		Gateways:    make([]GatewayReport, 0, len(s.Gateways)),
		Teams:       make([]ItemReport, 0, len(s.Teams)),
		Servers:     make([]ItemReport, 0, len(s.Servers)),
		Notes:       s.Notes,
	}
	for _, gw := range s.Gateways {
		tools := gw.Tools
		if tools == nil {
			tools = []string{}
		}
		r.Gateways = append(r.Gateways, GatewayReport{
			Label:   gw.Label,
			Name:    gw.Result.Name,
			ID:      gw.Result.ID,
			Outcome: string(gw.Result.Outcome),
			Tools:   tools,
			Reason:  gw.Reason,
		})
	}
	for _, team := range s.Teams {
		r.Teams = append(r.Teams, ItemReport{Name: team.Name, ID: team.ID, Outcome: string(team.Outcome)})
	}
	for _, srv := range s.Servers {
		tools := srv.Tools
		item := ItemReport{Name: srv.Name, ID: srv.ID, Outcome: string(srv.Outcome), Tools: &tools}
		if srv.Err != nil {
			item.Error = srv.Err.Error()
		}
		r.Servers = append(r.Servers, item)
	}
	return r
}

// toolsDetail describes what discovery found for a gateway.
func toolsDetail(gw orchestrator.GatewaySummary) string {
	switch gw.Mode {
	case orchestrator.DiscoverPoll:
		optional := gw.ToolSet.Optional
		if optional == "" {
			optional = "not found"
		}
		return fmt.Sprintf("query=%s, list_databases=%s", gw.ToolSet.Required, optional)
	case orchestrator.DiscoverOnce:
		return fmt.Sprintf("%d discovered", len(gw.Tools))
	default:
		return "-"
	}
}

// idOrDash returns id, or a placeholder explaining why there is none.
func idOrDash(id string, outcome registrar.Outcome) string {
	if id != "" {
		return id
	}
	if outcome == registrar.OutcomeFailed {
		return "(none, unscoped)"
	}
	return "-"
}

func indent(lines []string, prefix string) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
