package mock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"forgeseed/internal/controlplane"
)

// RecordedRequest is one request received by the mock control plane.
type RecordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

type pendingTool struct {
	afterCalls int
	tool       controlplane.Tool
}

// ControlPlane is an in-memory control plane REST API served over
// httptest. It implements just enough of /health, /gateways, /tools,
// /teams/ and /servers for registration tests, including the 409 behaviour
// of the real service.
type ControlPlane struct {
	mu     sync.Mutex
	server *httptest.Server

	gateways map[string]json.RawMessage // id -> last written body
	order    []controlplane.Gateway
	tools    []controlplane.Tool
	teams    []controlplane.Team
	servers  map[string]json.RawMessage
	pending  []pendingTool
	requests []RecordedRequest
	failures map[string]int
	nextID   int

	toolsCalls int

	// OmitCreatedID makes POST /gateways answer without an id.
	OmitCreatedID bool
	// TeamsWrapper, when set, wraps the teams list in an object under this key.
	TeamsWrapper string
	// ToolsAsObject makes GET /tools answer with a JSON object instead of a list.
	ToolsAsObject bool
}

// NewControlPlane starts a mock control plane. Call Close when done.
func NewControlPlane() *ControlPlane {
	cp := &ControlPlane{
		gateways: make(map[string]json.RawMessage),
		servers:  make(map[string]json.RawMessage),
		failures: make(map[string]int),
	}
	cp.server = httptest.NewServer(http.HandlerFunc(cp.handle))
	return cp
}

// URL returns the base URL of the mock.
func (cp *ControlPlane) URL() string {
	return cp.server.URL
}

// Close shuts the mock down.
func (cp *ControlPlane) Close() {
	cp.server.Close()
}

// AddGateway seeds an existing gateway and returns its id.
func (cp *ControlPlane) AddGateway(name, url string) string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	id := cp.newID("gw")
	cp.order = append(cp.order, controlplane.Gateway{ID: id, Name: name, URL: url})
	cp.gateways[id] = json.RawMessage(fmt.Sprintf(`{"name":%q,"url":%q}`, name, url))
	return id
}

// AddTool seeds a tool owned by gatewayID and returns its id.
func (cp *ControlPlane) AddTool(gatewayID, name string) string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	id := cp.newID("tool")
	cp.tools = append(cp.tools, controlplane.Tool{ID: id, Name: name, GatewayID: gatewayID})
	return id
}

// AddToolAfter makes a tool appear once GET /tools has been served
// afterCalls times, simulating asynchronous discovery. The tool id is
// returned immediately.
func (cp *ControlPlane) AddToolAfter(afterCalls int, gatewayID, name string) string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	id := cp.newID("tool")
	cp.pending = append(cp.pending, pendingTool{
		afterCalls: afterCalls,
		tool:       controlplane.Tool{ID: id, Name: name, GatewayID: gatewayID},
	})
	return id
}

// AddTeam seeds an existing team and returns its id.
func (cp *ControlPlane) AddTeam(name, slug string) string {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	id := cp.newID("team")
	cp.teams = append(cp.teams, controlplane.Team{ID: id, Name: name, Slug: slug})
	return id
}

// AddServer seeds an existing virtual server id so that creating it again
// answers 409.
func (cp *ControlPlane) AddServer(id string) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.servers[id] = json.RawMessage(`{}`)
}

// FailNext makes the next n requests matching method and path answer with
// status 500.
func (cp *ControlPlane) FailNext(method, path string, n int) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.failures[method+" "+path] += n
}

// Requests returns a copy of all recorded requests.
func (cp *ControlPlane) Requests() []RecordedRequest {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	out := make([]RecordedRequest, len(cp.requests))
	copy(out, cp.requests)
	return out
}

// Count returns how many requests matched method and path.
func (cp *ControlPlane) Count(method, path string) int {
	n := 0
	for _, r := range cp.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastBody returns the body of the most recent request matching method and
// path, or nil.
func (cp *ControlPlane) LastBody(method, path string) []byte {
	reqs := cp.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i].Body
		}
	}
	return nil
}

// Gateways returns the current gateways.
func (cp *ControlPlane) Gateways() []controlplane.Gateway {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	out := make([]controlplane.Gateway, len(cp.order))
	copy(out, cp.order)
	return out
}

// Teams returns the current teams.
func (cp *ControlPlane) Teams() []controlplane.Team {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	out := make([]controlplane.Team, len(cp.teams))
	copy(out, cp.teams)
	return out
}

// Server returns the stored create body of a virtual server.
func (cp *ControlPlane) Server(id string) (json.RawMessage, bool) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	body, ok := cp.servers[id]
	return body, ok
}

// ToolsCalls returns how many times GET /tools was served.
func (cp *ControlPlane) ToolsCalls() int {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.toolsCalls
}

func (cp *ControlPlane) newID(prefix string) string {
	cp.nextID++
	return fmt.Sprintf("%s-%04d-0000-0000-0000", prefix, cp.nextID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (cp *ControlPlane) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	cp.mu.Lock()
	defer cp.mu.Unlock()

	cp.requests = append(cp.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})

	key := r.Method + " " + r.URL.Path
	if cp.failures[key] > 0 {
		cp.failures[key]--
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "injected failure"})
		return
	}

	switch {
	case r.URL.Path == controlplane.PathHealth && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})

	case r.URL.Path == controlplane.PathGateways && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, cp.order)

	case r.URL.Path == controlplane.PathGateways && r.Method == http.MethodPost:
		var desc controlplane.GatewayDescriptor
		if err := json.Unmarshal(body, &desc); err != nil || desc.Name == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid gateway"})
			return
		}
		for _, gw := range cp.order {
			if gw.Name == desc.Name {
				writeJSON(w, http.StatusConflict, map[string]string{"detail": "gateway name already exists"})
				return
			}
		}
		id := cp.newID("gw")
		cp.order = append(cp.order, controlplane.Gateway{ID: id, Name: desc.Name, URL: desc.URL})
		cp.gateways[id] = body
		if cp.OmitCreatedID {
			writeJSON(w, http.StatusCreated, map[string]string{"name": desc.Name})
			return
		}
		writeJSON(w, http.StatusCreated, controlplane.Gateway{ID: id, Name: desc.Name, URL: desc.URL})

	case strings.HasPrefix(r.URL.Path, controlplane.PathGateways+"/") && r.Method == http.MethodPut:
		id := strings.TrimPrefix(r.URL.Path, controlplane.PathGateways+"/")
		if _, ok := cp.gateways[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "gateway not found"})
			return
		}
		var update controlplane.GatewayUpdate
		_ = json.Unmarshal(body, &update)
		for i := range cp.order {
			if cp.order[i].ID == id && update.URL != "" {
				cp.order[i].URL = update.URL
			}
		}
		cp.gateways[id] = body
		writeJSON(w, http.StatusOK, map[string]string{"id": id})

	case r.URL.Path == controlplane.PathTools && r.Method == http.MethodGet:
		cp.toolsCalls++
		remaining := cp.pending[:0]
		for _, p := range cp.pending {
			if cp.toolsCalls > p.afterCalls {
				cp.tools = append(cp.tools, p.tool)
			} else {
				remaining = append(remaining, p)
			}
		}
		cp.pending = remaining
		if cp.ToolsAsObject {
			writeJSON(w, http.StatusOK, map[string]any{"detail": "not a list"})
			return
		}
		writeJSON(w, http.StatusOK, cp.tools)

	case r.URL.Path == controlplane.PathTeams && r.Method == http.MethodGet:
		if cp.TeamsWrapper != "" {
			writeJSON(w, http.StatusOK, map[string]any{cp.TeamsWrapper: cp.teams})
			return
		}
		writeJSON(w, http.StatusOK, cp.teams)

	case r.URL.Path == controlplane.PathTeams && r.Method == http.MethodPost:
		var desc controlplane.TeamDescriptor
		if err := json.Unmarshal(body, &desc); err != nil || desc.Slug == "" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid team"})
			return
		}
		team := controlplane.Team{ID: cp.newID("team"), Name: desc.Name, Slug: desc.Slug}
		cp.teams = append(cp.teams, team)
		writeJSON(w, http.StatusCreated, team)

	case r.URL.Path == controlplane.PathServers && r.Method == http.MethodPost:
		var req struct {
			Server map[string]json.RawMessage `json:"server"`
		}
		if err := json.Unmarshal(body, &req); err != nil || req.Server == nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid server"})
			return
		}
		if teamID, ok := req.Server["team_id"]; ok && string(teamID) == "null" {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "team_id: none is not an allowed value"})
			return
		}
		var id string
		_ = json.Unmarshal(req.Server["id"], &id)
		if _, exists := cp.servers[id]; exists {
			writeJSON(w, http.StatusConflict, map[string]string{"detail": "server already exists"})
			return
		}
		cp.servers[id] = body
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
	}
}
