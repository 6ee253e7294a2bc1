package output

import (
	"io"

	"github.com/aryankumar/sep/internal/action"
)

// Format represents the output format type
type Format string

const (
	// FormatTable outputs data in a table format (kubectl-style)
	FormatTable Format = "table"
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatText outputs one "name : status" line per result
	FormatText Format = "text"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatText}
}

// Formatter defines the interface for output formatting
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatResults outputs a result set, ordered by name
	FormatResults(w io.Writer, results *action.ResultSet) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Wide enables wide output with additional columns
	Wide bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithWide enables wide output
func WithWide(wide bool) Option {
	return func(o *Options) {
		o.Wide = wide
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatText:
		return NewTextFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}
