package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgeseed/internal/config"
	"forgeseed/internal/controlplane"
	"forgeseed/internal/discovery"
	"forgeseed/internal/health"
	"forgeseed/internal/integrations"
	"forgeseed/internal/orchestrator"
	"forgeseed/internal/registrar"
	"forgeseed/internal/testing/mock"
)

// flakyTransport fails the first n requests to paths ending in suffix
// with a connection error.
type flakyTransport struct {
	mu       sync.Mutex
	suffix   string
	failures int
	attempts int
}

func (f *flakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.HasSuffix(req.URL.Path, f.suffix) {
		f.mu.Lock()
		f.attempts++
		fail := f.attempts <= f.failures
		f.mu.Unlock()
		if fail {
			return nil, errors.New("connection refused")
		}
	}
	return http.DefaultTransport.RoundTrip(req)
}

func (f *flakyTransport) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func testConfig(controlPlaneURL string) config.Config {
	cfg := config.Default()
	cfg.ControlPlane.URL = controlPlaneURL
	cfg.ControlPlane.Domain = "localhost:4444"
	cfg.Health.MaxAttempts = 5
	cfg.Health.Interval = 10 * time.Millisecond
	cfg.Discovery.Timeout = time.Second
	cfg.Discovery.Interval = 10 * time.Millisecond
	cfg.Atlassian.ClientID = "atl-id"
	cfg.Atlassian.ClientSecret = "atl-secret"
	cfg.MindsDB.Username = "mindsdb"
	cfg.MindsDB.Password = "secret"
	return cfg
}

func TestRun_AtlassianEndToEnd(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()

	transport := &flakyTransport{suffix: controlplane.PathHealth, failures: 2}
	cfg := testConfig(cp.URL())
	o := orchestrator.New(cfg, orchestrator.WithHTTPClient(&http.Client{Transport: transport, Timeout: 5 * time.Second}))

	start := time.Now()
	summary, err := o.Run(context.Background(), integrations.Atlassian(cfg))
	require.NoError(t, err)

	assert.Equal(t, 3, transport.Attempts())
	assert.GreaterOrEqual(t, time.Since(start), 2*cfg.Health.Interval)

	// Gateway absent, then created once with the OAuth payload.
	assert.Equal(t, 1, cp.Count(http.MethodPost, controlplane.PathGateways))
	var gw map[string]any
	require.NoError(t, json.Unmarshal(cp.LastBody(http.MethodPost, controlplane.PathGateways), &gw))
	assert.Equal(t, integrations.RovoGatewayName, gw["name"])
	assert.Equal(t, "STREAMABLEHTTP", gw["transport"])
	assert.Equal(t, "oauth", gw["auth_type"])
	assert.Equal(t, "public", gw["visibility"])
	oauthCfg, ok := gw["oauth_config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:4444/oauth/callback", oauthCfg["redirect_uri"])

	// Single check only, nothing found.
	assert.Equal(t, 1, cp.ToolsCalls())
	require.Len(t, summary.Gateways, 2)
	assert.Equal(t, registrar.OutcomeCreated, summary.Gateways[0].Result.Outcome)
	assert.Empty(t, summary.Gateways[0].Tools)
	assert.Equal(t, registrar.OutcomeSkipped, summary.Gateways[1].Result.Outcome)
	assert.Equal(t, 0, summary.ToolCount())

	// Server created anyway, with an empty tool list and the fixed id.
	body, ok := cp.Server(integrations.AtlassianServerID)
	require.True(t, ok)
	var srv struct {
		Server map[string]json.RawMessage `json:"server"`
	}
	require.NoError(t, json.Unmarshal(body, &srv))
	assert.JSONEq(t, `[]`, string(srv.Server["associated_tools"]))
	_, hasTeam := srv.Server["team_id"]
	assert.False(t, hasTeam)

	require.Len(t, summary.Servers, 1)
	assert.Equal(t, registrar.OutcomeCreated, summary.Servers[0].Outcome)
	require.Len(t, summary.Notes, 1)
	assert.Contains(t, summary.Notes[0], "http://localhost:4444/admin/gateways")

	for _, req := range cp.Requests() {
		if req.Path == controlplane.PathHealth {
			continue
		}
		assert.True(t, strings.HasPrefix(req.Auth, "Bearer ey"), "request %s %s", req.Method, req.Path)
	}
}

func TestRun_AtlassianSecondRunIsIdempotent(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	cfg := testConfig(cp.URL())
	cfg.Bitbucket.ClientID = "bb-id"
	cfg.Bitbucket.ClientSecret = "bb-secret"

	_, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))
	require.NoError(t, err)
	second, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))
	require.NoError(t, err)

	assert.Equal(t, 2, cp.Count(http.MethodPost, controlplane.PathGateways))
	assert.Len(t, cp.Gateways(), 2)
	for _, gw := range second.Gateways {
		assert.Equal(t, registrar.OutcomeExisting, gw.Result.Outcome)
	}
	assert.Equal(t, registrar.OutcomeExisting, second.Servers[0].Outcome)
}

func TestRun_OptionalGatewayFailureIsNotFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	rovoID := cp.AddGateway(integrations.RovoGatewayName, integrations.RovoMCPURL)
	cp.AddTool(rovoID, "getJiraIssue")
	cp.FailNext(http.MethodPost, controlplane.PathGateways, 1)

	cfg := testConfig(cp.URL())
	cfg.Bitbucket.ClientID = "bb-id"
	cfg.Bitbucket.ClientSecret = "bb-secret"

	summary, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))
	require.NoError(t, err)

	require.Len(t, summary.Gateways, 2)
	assert.Equal(t, rovoID, summary.Gateways[0].Result.ID)
	assert.Len(t, summary.Gateways[0].Tools, 1)
	assert.Equal(t, registrar.OutcomeFailed, summary.Gateways[1].Result.Outcome)
	assert.NotEmpty(t, summary.Gateways[1].Reason)
	assert.Empty(t, summary.Notes)
}

func TestRun_MissingGatewayIDIsFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	cp.OmitCreatedID = true
	cfg := testConfig(cp.URL())

	_, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))
	require.Error(t, err)

	var fatal *orchestrator.FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, orchestrator.StageGateway, fatal.Stage)
	var missing *registrar.MissingIDError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, 0, cp.Count(http.MethodPost, controlplane.PathServers))
}

func TestRun_UnhealthyIsFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	cp.FailNext(http.MethodGet, controlplane.PathHealth, 10)
	cfg := testConfig(cp.URL())
	cfg.Health.MaxAttempts = 3

	_, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))

	var fatal *orchestrator.FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, orchestrator.StageHealth, fatal.Stage)
	var unavailable *health.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, 3, unavailable.Attempts)
	assert.Equal(t, 3, cp.Count(http.MethodGet, controlplane.PathHealth))
	assert.Equal(t, 0, cp.Count(http.MethodGet, controlplane.PathGateways))
}

func TestRun_BadSigningKeyIsFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	cfg := testConfig(cp.URL())
	cfg.Token.Algorithm = "RS256"
	cfg.Token.PrivateKeyPath = "/nonexistent/key.pem"

	_, err := orchestrator.New(cfg).Run(context.Background(), integrations.Atlassian(cfg))

	var fatal *orchestrator.FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, orchestrator.StageToken, fatal.Stage)
}

// mindsdbServer serves the MindsDB status and login endpoints.
func mindsdbServer(t *testing.T, sessionToken string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		if sessionToken == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"session": sessionToken})
	})
	return httptest.NewServer(mux)
}

func TestRun_MindsDBPollsAndComposes(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	mdb := mindsdbServer(t, "mdb-session")
	defer mdb.Close()

	gwID := cp.AddGateway(integrations.MindsDBGatewayName, "http://stale/mcp/sse")
	queryID := cp.AddToolAfter(2, gwID, "mindsdb-query")
	cp.AddTeam("Legal", "legal")

	cfg := testConfig(cp.URL())
	cfg.MindsDB.URL = mdb.URL

	summary, err := orchestrator.New(cfg).Run(context.Background(), integrations.MindsDB(cfg))
	require.NoError(t, err)

	// Rotated in place, never re-created.
	assert.Equal(t, 0, cp.Count(http.MethodPost, controlplane.PathGateways))
	var update controlplane.GatewayUpdate
	require.NoError(t, json.Unmarshal(cp.LastBody(http.MethodPut, "/gateways/"+gwID), &update))
	assert.Equal(t, "mdb-session", update.AuthToken)
	assert.Equal(t, mdb.URL+"/mcp/sse", update.URL)

	require.Len(t, summary.Gateways, 1)
	assert.Equal(t, registrar.OutcomeUpdated, summary.Gateways[0].Result.Outcome)
	assert.Equal(t, discovery.ToolSet{Required: queryID}, summary.Gateways[0].ToolSet)
	assert.Equal(t, 3, cp.ToolsCalls())

	require.Len(t, summary.Teams, 2)
	assert.Equal(t, registrar.OutcomeExisting, summary.Teams[0].Outcome)
	assert.Equal(t, registrar.OutcomeCreated, summary.Teams[1].Outcome)

	require.Len(t, summary.Servers, 3)
	for _, srv := range summary.Servers {
		assert.Equal(t, registrar.OutcomeCreated, srv.Outcome, srv.Name)
		assert.Equal(t, 1, srv.Tools, srv.Name)
	}
	body, ok := cp.Server(integrations.LegalServerID)
	require.True(t, ok)
	assert.Contains(t, string(body), `"visibility":"team"`)
}

func TestRun_MindsDBTeamFailureIsNotFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	mdb := mindsdbServer(t, "mdb-session")
	defer mdb.Close()

	cp.FailNext(http.MethodPost, controlplane.PathTeams, 2)
	cfg := testConfig(cp.URL())
	cfg.MindsDB.URL = mdb.URL

	gwID := cp.AddGateway(integrations.MindsDBGatewayName, mdb.URL+"/mcp/sse")
	cp.AddTool(gwID, "query")

	summary, err := orchestrator.New(cfg).Run(context.Background(), integrations.MindsDB(cfg))
	require.NoError(t, err)

	for _, team := range summary.Teams {
		assert.Equal(t, registrar.OutcomeFailed, team.Outcome)
		assert.Empty(t, team.ID)
	}
	body, ok := cp.Server(integrations.HRServerID)
	require.True(t, ok)
	assert.NotContains(t, string(body), "team_id")
	assert.Contains(t, string(body), `"visibility":"private"`)
}

func TestRun_MindsDBLoginFailureIsFatal(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	mdb := mindsdbServer(t, "")
	defer mdb.Close()

	cfg := testConfig(cp.URL())
	cfg.MindsDB.URL = mdb.URL

	_, err := orchestrator.New(cfg).Run(context.Background(), integrations.MindsDB(cfg))

	var fatal *orchestrator.FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, orchestrator.StageLogin, fatal.Stage)
	var loginErr *integrations.LoginError
	assert.True(t, errors.As(err, &loginErr))
}

func TestRun_MindsDBQueryNeverDiscovered(t *testing.T) {
	cp := mock.NewControlPlane()
	defer cp.Close()
	mdb := mindsdbServer(t, "mdb-session")
	defer mdb.Close()

	cfg := testConfig(cp.URL())
	cfg.MindsDB.URL = mdb.URL
	cfg.Discovery.Timeout = 50 * time.Millisecond

	summary, err := orchestrator.New(cfg).Run(context.Background(), integrations.MindsDB(cfg))

	var fatal *orchestrator.FatalError
	require.True(t, errors.As(err, &fatal))
	assert.Equal(t, orchestrator.StageDiscovery, fatal.Stage)
	require.Len(t, summary.Gateways, 1)
	assert.NotEmpty(t, summary.Gateways[0].Result.ID)
	assert.False(t, summary.Empty())
	var notFound *discovery.NotDiscoveredError
	require.True(t, errors.As(err, &notFound))
	assert.GreaterOrEqual(t, cp.ToolsCalls(), 5)
	assert.Equal(t, 0, cp.Count(http.MethodPost, controlplane.PathServers))
}
