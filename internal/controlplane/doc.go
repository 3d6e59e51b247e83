// Package controlplane is a thin authenticated JSON client for the control
// plane REST API (gateways, tools, teams, servers) together with the typed
// descriptors sent to and read from it.
//
// The client does not retry. Non-2xx responses surface as *APIError so that
// callers can branch on the status code, most importantly 409 Conflict:
//
//	err := client.Do(ctx, http.MethodPost, "/servers", payload, nil)
//	if controlplane.IsConflict(err) {
//	    // already exists
//	}
package controlplane
