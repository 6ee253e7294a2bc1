package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/aryankumar/sep/internal/action"
)

// Healthy is printed for successful results by the text formatter
const Healthy = "HEALTHY"

// TextFormatter prints one "name : HEALTHY" or "name : <message>" line per
// result, ordered by name
type TextFormatter struct {
	options *Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(opts *Options) *TextFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TextFormatter{
		options: opts,
	}
}

// Format outputs a single data item using its default string form
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintln(w, data)
	return err
}

// FormatResults outputs one status line per result
func (f *TextFormatter) FormatResults(w io.Writer, results *action.ResultSet) error {
	colors := NewColorScheme(w, f.options.NoColor)

	for name, r := range results.All() {
		status := Healthy
		if !r.OK() {
			status = r.Message
			if status == "" {
				status = "UNHEALTHY (code " + r.Code + ")"
			}
		}
		if !colors.Disabled {
			status = colors.StatusColor(!r.OK())("%s", status)
		}
		if _, err := fmt.Fprintf(w, "%s : %s\n", name, status); err != nil {
			return err
		}
	}
	return nil
}

// HealthText renders results as uncolored health text without a trailing newline
func HealthText(results *action.ResultSet) string {
	var sb strings.Builder
	_ = NewTextFormatter(&Options{NoColor: true}).FormatResults(&sb, results)
	return strings.TrimSuffix(sb.String(), "\n")
}
