// Package formatting renders the summary of a registration run.
//
// The same Summary can be printed as a rounded table (the default), as
// plain console lines, or as JSON or YAML for scripts that post-process the
// ids a run produced.
package formatting

import (
	"forgeseed/internal/orchestrator"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Plain console lines
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored output
}

// Formatter renders a run summary
type Formatter interface {
	FormatSummary(summary orchestrator.Summary) string
}

// ParseFormat validates a --output flag value.
func ParseFormat(name string) (OutputFormat, bool) {
	switch f := OutputFormat(name); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, true
	default:
		return "", false
	}
}

// New creates the formatter selected by options.Format
func New(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatConsole:
		return &ConsoleFormatter{}
	case FormatTable:
		fallthrough
	default:
		return &TableFormatter{options: options}
	}
}
