// Package logging provides subsystem-tagged structured logging for forgeseed.
//
// The package wraps Go's standard slog package with a small set of helpers
// that always attach a subsystem attribute, so that the output of a
// registration run can be filtered by pipeline stage.
//
// # Log Levels
//   - **Debug**: request level details (payloads, list sizes)
//   - **Info**: pipeline progress ("Created gateway", "Team exists")
//   - **Warn**: recoverable failures that the run continues past
//   - **Error**: failures, including the one that aborts a run
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Gateway", "Created gateway: %s", id)
//	logging.Warn("Teams", "Failed to create team %s", name)
//	logging.Error("Discovery", err, "Polling error at %ds", elapsed)
//
// # Subsystems
//
//   - **ConfigLoader**: configuration loading
//   - **ControlPlane**: control-plane HTTP requests
//   - **Health**: service health waits
//   - **Token**: admin token minting
//   - **Gateway**: gateway registration
//   - **Discovery**: tool discovery
//   - **Teams**: team provisioning
//   - **Servers**: virtual server composition
//   - **Orchestrator**: pipeline sequencing
//
// Before InitForCLI is called, warnings and errors are written to stderr and
// lower levels are dropped.
package logging
