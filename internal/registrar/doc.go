// Package registrar brings control plane resources to their desired state
// without creating duplicates.
//
// Every Ensure method reads the current state before writing:
//
//   - GatewayRegistrar looks a gateway up by name, rotates credentials in
//     place for bearer gateways and creates it only when absent.
//   - TeamProvisioner matches teams by slug or display name and creates
//     missing ones with private visibility.
//   - ServerComposer creates virtual servers under fixed ids and accepts a
//     409 Conflict as "already exists".
//
// Only gateway registration can fail a run. Team and server failures are
// logged and reported in the results.
package registrar

// Outcome records what an Ensure call did to a resource.
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeUpdated  Outcome = "updated"
	OutcomeExisting Outcome = "exists"
	OutcomeFailed   Outcome = "failed"
	OutcomeSkipped  Outcome = "skipped"
)
