package orchestrator

import (
	"forgeseed/internal/discovery"
	"forgeseed/internal/registrar"
)

// GatewaySummary reports one gateway step.
type GatewaySummary struct {
	Key     string
	Label   string
	Result  registrar.GatewayResult
	Mode    DiscoveryMode
	ToolSet discovery.ToolSet
	Tools   []string
	// Reason explains a skipped or failed optional gateway.
	Reason string
}

// Summary lists every resource id produced or reused by a run.
type Summary struct {
	Integration string
	Gateways    []GatewaySummary
	Teams       []registrar.TeamResult
	Servers     []registrar.ServerResult
	Notes       []string
}

// ToolCount returns the number of tools discovered over all gateways.
func (s Summary) ToolCount() int {
	n := 0
	for _, gw := range s.Gateways {
		n += len(gw.Tools)
	}
	return n
}

// Empty reports whether the run produced nothing worth printing.
func (s Summary) Empty() bool {
	return len(s.Gateways) == 0 && len(s.Teams) == 0 && len(s.Servers) == 0 && len(s.Notes) == 0
}
