// Package mock provides test doubles for the control plane.
//
// ControlPlane is an in-memory implementation of the control plane REST API
// served through net/http/httptest. It keeps gateways, tools, teams and
// virtual servers in memory, records every request, and can be told to
// fail requests, omit ids from create responses or reveal tools only after
// a number of listings, which simulates asynchronous tool discovery:
//
//	cp := mock.NewControlPlane()
//	defer cp.Close()
//
//	gw := cp.AddGateway("mindsdb", "http://mindsdb:47334/mcp/sse")
//	cp.AddToolAfter(3, gw, "mindsdb-query")
//	cp.FailNext(http.MethodPost, "/teams/", 1)
//
//	client := controlplane.NewClient(cp.URL(), "token")
//
// Clock is a controllable time source for components that accept a clock
// function.
package mock
