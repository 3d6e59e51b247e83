package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"forgeseed/internal/config"
	"forgeseed/internal/formatting"
	"forgeseed/internal/integrations"
	"forgeseed/internal/orchestrator"
	"forgeseed/pkg/logging"

	"github.com/spf13/cobra"
)

// registerOptions holds the flags shared by all register subcommands.
type registerOptions struct {
	configPath string
	debug      bool
	output     string
	noColor    bool

	// lookup resolves environment variables. Tests replace it.
	lookup config.LookupFunc
}

func newRegisterCmd() *cobra.Command {
	opts := &registerOptions{lookup: os.LookupEnv}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register an integration with the control plane",
		Long: `Register an integration with the control plane.

Configuration is read from built-in defaults, then the optional --config
YAML file, then environment variables (MCPGATEWAY_URL, MCF_DOMAIN,
JWT_SECRET_KEY, ...). Logs go to stderr, the summary to stdout.

Exit codes:
  0  success (non-fatal team or server failures are logged)
  1  unexpected error
  2  configuration error
  3  a service never became healthy
  4  gateway registration or login failed
  5  the required tool was never discovered`,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", string(formatting.FormatTable), "Summary format (table, console, json, yaml)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(&cobra.Command{
		Use:   "mindsdb",
		Short: "Register MindsDB as a data gateway",
		Long: `Register MindsDB as a bearer-token gateway.

Waits for the control plane and MindsDB, logs into MindsDB to obtain a
session token, registers or updates the "mindsdb" gateway, waits for the
query tool to be discovered, provisions the Legal and HR teams and creates
the legal-team-data, hr-team-data and admin-data-gateway virtual servers.

Requires MINDSDB_USERNAME and MINDSDB_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), config.IntegrationMindsDB)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "atlassian",
		Short: "Register Atlassian Rovo (and Bitbucket) OAuth gateways",
		Long: `Register Atlassian Rovo as an OAuth 2.0 (3LO) gateway.

Registers the "atlassian-rovo" gateway and, when BITBUCKET_OAUTH_CLIENT_ID
and BITBUCKET_OAUTH_CLIENT_SECRET are set, the "atlassian-bitbucket"
gateway. Tools only appear after a user completed the OAuth consent in the
admin UI, so discovery checks once and an empty result is expected. The
admin-atlassian virtual server is created either way.

Requires ATLASSIAN_OAUTH_CLIENT_ID and ATLASSIAN_OAUTH_CLIENT_SECRET.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), config.IntegrationAtlassian)
		},
	})

	return cmd
}

func (o *registerOptions) run(ctx context.Context, out, errOut io.Writer, integration config.Integration) error {
	level := logging.LevelInfo
	if o.debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, errOut)

	format, ok := formatting.ParseFormat(o.output)
	if !ok {
		return config.ConfigurationError{
			Source:      "flags",
			Key:         "output",
			Message:     fmt.Sprintf("unsupported format %q", o.output),
			Suggestions: []string{"Use one of: table, console, json, yaml"},
		}
	}

	cfg, err := config.LoadWithLookup(o.configPath, o.lookup)
	if err != nil {
		return err
	}
	if err := cfg.ValidateFor(integration); err != nil {
		if collection, ok := err.(config.ConfigurationErrorCollection); ok {
			fmt.Fprintln(errOut, collection.GetDetailedReport())
		}
		return err
	}

	plan, err := integrations.ForName(integration, cfg)
	if err != nil {
		return err
	}

	summary, runErr := orchestrator.New(cfg).Run(ctx, plan)
	if runErr != nil && summary.Empty() {
		return runErr
	}

	// A failed run still prints the ids it produced before the failure.
	formatter := formatting.New(formatting.Options{Format: format, Color: !o.noColor})
	if _, err := io.WriteString(out, formatter.FormatSummary(summary)); err != nil && runErr == nil {
		return err
	}
	return runErr
}
