package output

import (
	"io"

	"github.com/aryankumar/sep/internal/action"
	"gopkg.in/yaml.v3"
)

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	options *Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(opts *Options) *YAMLFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &YAMLFormatter{
		options: opts,
	}
}

// Format outputs a single data item as YAML
func (f *YAMLFormatter) Format(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(data)
}

// FormatResults outputs results as a YAML mapping keyed by action name.
// Wide mode adds each result's duration.
func (f *YAMLFormatter) FormatResults(w io.Writer, results *action.ResultSet) error {
	if !f.options.Wide {
		return f.Format(w, results)
	}
	return f.Format(w, wideResults(results))
}
