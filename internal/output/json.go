package output

import (
	"encoding/json"
	"io"

	"github.com/aryankumar/sep/internal/action"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatResults outputs results as a JSON object keyed by action name.
// Wide mode adds each result's duration.
func (f *JSONFormatter) FormatResults(w io.Writer, results *action.ResultSet) error {
	if !f.options.Wide {
		return f.Format(w, results)
	}
	return f.Format(w, wideResults(results))
}

// wideResult is a result with its duration exposed for structured output
type wideResult struct {
	action.Result `yaml:",inline"`
	Duration      string `json:"duration" yaml:"duration"`
}

func wideResults(results *action.ResultSet) map[string]wideResult {
	out := make(map[string]wideResult, results.Len())
	for name, r := range results.All() {
		out[name] = wideResult{Result: r, Duration: r.Duration.String()}
	}
	return out
}
