// Package integrations builds the registration plans of the supported
// integrations from a config.Config.
//
// Each builder returns an orchestrator.Plan; the orchestrator does the
// work. Integration specific knowledge lives here: gateway descriptors,
// tool classification rules, team names, virtual server ids and the
// MindsDB session login.
package integrations
