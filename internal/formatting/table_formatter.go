package formatting

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"forgeseed/internal/orchestrator"
	"forgeseed/internal/registrar"
	pkgstrings "forgeseed/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// FormatSummary renders one row per resource followed by any notes.
func (f *TableFormatter) FormatSummary(s orchestrator.Summary) string {
	var b strings.Builder

	b.WriteString(f.colorize(text.FgHiGreen, fmt.Sprintf("=== %s registration complete ===", s.Integration)))
	b.WriteString("\n")

	t := f.createTable()
	t.AppendHeader(table.Row{
		f.colorize(text.FgHiCyan, "RESOURCE"),
		f.colorize(text.FgHiCyan, "NAME"),
		f.colorize(text.FgHiCyan, "STATUS"),
		f.colorize(text.FgHiCyan, "ID"),
		f.colorize(text.FgHiCyan, "DETAIL"),
	})

	for _, gw := range s.Gateways {
		detail := toolsDetail(gw)
		if gw.Reason != "" {
			detail = pkgstrings.SingleLine(gw.Reason, pkgstrings.DefaultDetailMaxLen)
		}
		t.AppendRow(table.Row{"gateway", gw.Result.Name, f.outcome(gw.Result.Outcome), idOrDash(gw.Result.ID, ""), detail})
	}
	for _, team := range s.Teams {
		t.AppendRow(table.Row{"team", team.Name, f.outcome(team.Outcome), idOrDash(team.ID, team.Outcome), ""})
	}
	for _, srv := range s.Servers {
		detail := fmt.Sprintf("%d tools", srv.Tools)
		if srv.Err != nil {
			detail = pkgstrings.SingleLine(srv.Err.Error(), pkgstrings.DefaultDetailMaxLen)
		}
		t.AppendRow(table.Row{"server", srv.Name, f.outcome(srv.Outcome), srv.ID, detail})
	}

	b.WriteString(t.Render())
	b.WriteString("\n")

	if len(s.Notes) > 0 {
		b.WriteString("\n")
		b.WriteString(indent(s.Notes, f.colorize(text.FgYellow, "NOTE: ")))
	}
	return b.String()
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) colorize(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

func (f *TableFormatter) outcome(o registrar.Outcome) string {
	switch o {
	case registrar.OutcomeCreated, registrar.OutcomeUpdated:
		return f.colorize(text.FgGreen, string(o))
	case registrar.OutcomeExisting:
		return f.colorize(text.FgHiBlue, string(o))
	case registrar.OutcomeFailed:
		return f.colorize(text.FgRed, string(o))
	default:
		return f.colorize(text.FgYellow, string(o))
	}
}
