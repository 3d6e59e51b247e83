package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"forgeseed/internal/orchestrator"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct{}

// FormatSummary implements Formatter.
func (f *YAMLFormatter) FormatSummary(s orchestrator.Summary) string {
	data, err := yaml.Marshal(NewReport(s))
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(data)
}
