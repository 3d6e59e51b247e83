package formatting

import (
	"encoding/json"
	"fmt"

	"forgeseed/internal/orchestrator"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct{}

// FormatSummary implements Formatter.
func (f *JSONFormatter) FormatSummary(s orchestrator.Summary) string {
	data, err := json.MarshalIndent(NewReport(s), "", "  ")
	if err != nil {
		return fmt.Sprintf("{\"error\": %q}\n", err.Error())
	}
	return string(data) + "\n"
}
