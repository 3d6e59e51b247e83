// Package orchestrator runs one registration pipeline against the control
// plane.
//
// A Plan describes an integration declaratively: the services to wait for,
// the gateways to register, how their tools are discovered, the teams to
// provision and the virtual servers to compose from the results. Run
// executes the plan strictly in order:
//
//  1. wait for every health check
//  2. mint the admin token
//  3. log into the integrated system, when the plan has a Login step
//  4. ensure every gateway (optional ones without credentials are skipped)
//  5. discover tools, polling or with a single check per gateway
//  6. ensure teams
//  7. create virtual servers
//
// # Failure Handling
//
// Steps that cannot be recovered from return a *FatalError naming the stage
// and wrapping the typed cause (health.UnavailableError,
// registrar.MissingIDError, discovery.NotDiscoveredError and friends).
// Team and virtual server failures are logged and reported in the Summary
// but never fail the run; every step is idempotent, so a failed run is
// simply re-run.
//
// The orchestrator never exits the process. The command layer maps the
// returned error to an exit code.
package orchestrator
