package formatting

import (
	"fmt"
	"strings"

	"forgeseed/internal/orchestrator"
)

// ConsoleFormatter prints the summary as aligned plain lines.
type ConsoleFormatter struct{}

// FormatSummary implements Formatter.
func (f *ConsoleFormatter) FormatSummary(s orchestrator.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s registration complete ===\n", s.Integration)

	for _, gw := range s.Gateways {
		if gw.Result.ID == "" {
			fmt.Fprintf(&b, "  Gateway: %s (%s", gw.Result.Name, gw.Result.Outcome)
			if gw.Reason != "" {
				fmt.Fprintf(&b, ": %s", gw.Reason)
			}
			b.WriteString(")\n")
			continue
		}
		fmt.Fprintf(&b, "  Gateway: %s (%s)\n", gw.Result.Name, gw.Result.ID)
		if gw.Mode != orchestrator.DiscoverNone {
			fmt.Fprintf(&b, "  Tools: %s\n", toolsDetail(gw))
		}
	}
	for _, team := range s.Teams {
		if team.ID != "" {
			fmt.Fprintf(&b, "  Team: %s (%s)\n", team.Name, team.ID)
		}
	}
	for _, srv := range s.Servers {
		fmt.Fprintf(&b, "  Virtual Server: %s (%s, %s)\n", srv.Name, srv.ID, srv.Outcome)
	}
	if len(s.Notes) > 0 {
		b.WriteString("\n")
		b.WriteString(indent(s.Notes, "  NOTE: "))
	}
	return b.String()
}
