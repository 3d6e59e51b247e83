package registrar

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeseed/internal/controlplane"
	"forgeseed/internal/testing/mock"
)

var legal = controlplane.TeamDescriptor{Name: "Legal", Slug: "legal", Description: "Legal department team"}

func TestTeamProvisioner_Ensure(t *testing.T) {
	t.Run("creates missing team with private visibility", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		p := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin"))

		result := p.Ensure(context.Background(), legal)
		assert.Equal(t, OutcomeCreated, result.Outcome)
		assert.NotEmpty(t, result.ID)

		var body map[string]any
		require.NoError(t, json.Unmarshal(cp.LastBody(http.MethodPost, controlplane.PathTeams), &body))
		assert.Equal(t, "private", body["visibility"])
		assert.Equal(t, "legal", body["slug"])
	})

	t.Run("second run reuses the team", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		p := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin"))

		first := p.Ensure(context.Background(), legal)
		second := p.Ensure(context.Background(), legal)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, OutcomeExisting, second.Outcome)
		assert.Equal(t, 1, cp.Count(http.MethodPost, controlplane.PathTeams))
	})

	t.Run("matches by name when slug differs", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		id := cp.AddTeam("Legal", "legal-dept")

		result := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin")).Ensure(context.Background(), legal)
		assert.Equal(t, id, result.ID)
		assert.Equal(t, 0, cp.Count(http.MethodPost, controlplane.PathTeams))
	})

	t.Run("matches by slug in wrapped listing", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		cp.TeamsWrapper = "items"
		id := cp.AddTeam("Legal Department", "legal")

		result := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin")).Ensure(context.Background(), legal)
		assert.Equal(t, id, result.ID)
	})

	t.Run("creation failure yields empty id", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		cp.FailNext(http.MethodPost, controlplane.PathTeams, 1)

		result := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin")).Ensure(context.Background(), legal)
		assert.Empty(t, result.ID)
		assert.Equal(t, OutcomeFailed, result.Outcome)
	})

	t.Run("list failure still attempts creation", func(t *testing.T) {
		cp := mock.NewControlPlane()
		defer cp.Close()
		cp.FailNext(http.MethodGet, controlplane.PathTeams, 1)

		result := NewTeamProvisioner(controlplane.NewClient(cp.URL(), "admin")).Ensure(context.Background(), legal)
		assert.Equal(t, OutcomeCreated, result.Outcome)
	})
}
