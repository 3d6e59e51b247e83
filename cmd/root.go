package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"forgeseed/internal/config"
	"forgeseed/internal/discovery"
	"forgeseed/internal/health"
	"forgeseed/internal/integrations"
	"forgeseed/internal/registrar"
	"forgeseed/internal/token"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution, including runs with
	// logged non-fatal failures such as a team that could not be created.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeConfig indicates missing or malformed configuration.
	ExitCodeConfig = 2
	// ExitCodeUnhealthy indicates a service never reported healthy.
	ExitCodeUnhealthy = 3
	// ExitCodeRegistration indicates a gateway could not be registered or
	// the integration login failed.
	ExitCodeRegistration = 4
	// ExitCodeToolNotDiscovered indicates the required tool never appeared.
	ExitCodeToolNotDiscovered = 5
)

// rootCmd represents the base command for the forgeseed application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "forgeseed",
	Short: "Register federated MCP gateways in a Context Forge control plane",
	Long: `forgeseed seeds an MCP control plane with federated tool gateways.

Every run is idempotent: gateways are looked up by name before they are
created, bearer credentials are rotated in place, teams are matched by slug
or name and virtual servers use fixed ids. Re-running after a partial
failure is always safe.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "forgeseed version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if config.IsConfigurationError(err) {
		return ExitCodeConfig
	}

	var keyErr *token.KeyError
	if errors.As(err, &keyErr) {
		return ExitCodeConfig
	}

	var unavailable *health.UnavailableError
	if errors.As(err, &unavailable) {
		return ExitCodeUnhealthy
	}

	var missingID *registrar.MissingIDError
	if errors.As(err, &missingID) {
		return ExitCodeRegistration
	}

	var createErr *registrar.CreateError
	if errors.As(err, &createErr) {
		return ExitCodeRegistration
	}

	var loginErr *integrations.LoginError
	if errors.As(err, &loginErr) {
		return ExitCodeRegistration
	}

	var notDiscovered *discovery.NotDiscoveredError
	if errors.As(err, &notDiscovered) {
		return ExitCodeToolNotDiscovered
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRegisterCmd())
}
