package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"forgeseed/internal/config"
	"forgeseed/internal/discovery"
	"forgeseed/internal/health"
	"forgeseed/internal/integrations"
	"forgeseed/internal/orchestrator"
	"forgeseed/internal/registrar"
	"forgeseed/internal/token"

	"github.com/spf13/cobra"
)

func TestSetVersion(t *testing.T) {
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if GetVersion() != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, GetVersion())
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "forgeseed" {
		t.Errorf("Expected Use to be 'forgeseed', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "forgeseed version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	if err := testCmd.Execute(); err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	expected := "forgeseed version 1.0.0\n"
	if buf.String() != expected {
		t.Errorf("Expected version output %q, got %q", expected, buf.String())
	}
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]*cobra.Command)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = c
	}

	for _, expected := range []string{"version", "register"} {
		if found[expected] == nil {
			t.Errorf("Expected subcommand %q to be registered", expected)
		}
	}

	register := found["register"]
	if register == nil {
		return
	}
	integrationsFound := make(map[string]bool)
	for _, c := range register.Commands() {
		integrationsFound[c.Name()] = true
	}
	for _, expected := range []string{"mindsdb", "atlassian"} {
		if !integrationsFound[expected] {
			t.Errorf("Expected register subcommand %q", expected)
		}
	}
}

func TestGetExitCode(t *testing.T) {
	fatal := func(stage orchestrator.Stage, reason error) error {
		return &orchestrator.FatalError{Stage: stage, Reason: reason}
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic", errors.New("boom"), ExitCodeError},
		{"configuration", config.ConfigurationError{Key: "MINDSDB_USERNAME", Message: "is required"}, ExitCodeConfig},
		{"configuration collection", fmt.Errorf("load: %w", config.ConfigurationErrorCollection{
			Errors: []config.ConfigurationError{{Key: "TOKEN_EXPIRY"}},
		}), ExitCodeConfig},
		{"signing key", fatal(orchestrator.StageToken, &token.KeyError{Algorithm: "RS256"}), ExitCodeConfig},
		{"unhealthy", fatal(orchestrator.StageHealth, &health.UnavailableError{Name: "Gateway"}), ExitCodeUnhealthy},
		{"missing id", fatal(orchestrator.StageGateway, &registrar.MissingIDError{Resource: "gateway"}), ExitCodeRegistration},
		{"create failed", fatal(orchestrator.StageGateway, &registrar.CreateError{Resource: "gateway", Reason: errors.New("500")}), ExitCodeRegistration},
		{"login failed", fatal(orchestrator.StageLogin, &integrations.LoginError{URL: "http://mindsdb"}), ExitCodeRegistration},
		{"tool not discovered", fatal(orchestrator.StageDiscovery, &discovery.NotDiscoveredError{Capability: "query"}), ExitCodeToolNotDiscovered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := getExitCode(tt.err); got != tt.want {
				t.Errorf("getExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
