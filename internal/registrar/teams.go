package registrar

import (
	"context"

	"forgeseed/internal/controlplane"
	"forgeseed/pkg/logging"
)

// TeamResult is the outcome of TeamProvisioner.Ensure. ID is empty when
// the team could not be provisioned; callers treat that as unscoped.
type TeamResult struct {
	ID      string
	Name    string
	Outcome Outcome
}

// TeamProvisioner ensures teams exist.
type TeamProvisioner struct {
	client *controlplane.Client
}

// NewTeamProvisioner creates a provisioner backed by client.
func NewTeamProvisioner(client *controlplane.Client) *TeamProvisioner {
	return &TeamProvisioner{client: client}
}

// Ensure returns the id of the team matching desc by slug or name,
// creating it when none matches. Existing teams are never modified. Failures
// are logged and yield an empty ID; they never abort the run.
func (p *TeamProvisioner) Ensure(ctx context.Context, desc controlplane.TeamDescriptor) TeamResult {
	teams, err := p.client.ListTeams(ctx)
	if err != nil {
		logging.Warn("Teams", "Could not check teams: %v", err)
	}
	for _, t := range teams {
		if (desc.Slug != "" && t.Slug == desc.Slug) || (desc.Name != "" && t.Name == desc.Name) {
			logging.Info("Teams", "Team exists: %s (%s)", desc.Name, t.ID)
			return TeamResult{ID: t.ID, Name: desc.Name, Outcome: OutcomeExisting}
		}
	}

	if desc.Visibility == "" {
		desc.Visibility = controlplane.VisibilityPrivate
	}
	created, err := p.client.CreateTeam(ctx, desc)
	if err != nil {
		logging.Warn("Teams", "Failed to create team %s: %v", desc.Name, err)
		return TeamResult{Name: desc.Name, Outcome: OutcomeFailed}
	}
	if created.ID == "" {
		logging.Warn("Teams", "Team %s created but no 'id' in response, continuing unscoped", desc.Name)
		return TeamResult{Name: desc.Name, Outcome: OutcomeFailed}
	}

	logging.Info("Teams", "Created team: %s (%s)", desc.Name, created.ID)
	return TeamResult{ID: created.ID, Name: desc.Name, Outcome: OutcomeCreated}
}
