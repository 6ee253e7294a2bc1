package output

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aryankumar/sep/internal/action"
)

func sampleResults() *action.ResultSet {
	return action.Of(map[string]action.Result{
		"foo":  action.SuccessData("data").WithDuration(3 * time.Second),
		"bar":  action.Success().WithDuration(2 * time.Second),
		"buzz": action.FromError(errors.New("CONTROLLED EXCEPTION")).WithDuration(time.Millisecond),
	})
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name         string
		format       Format
		opts         []Option
		expectedType string
	}{
		{name: "table formatter default", format: FormatTable, expectedType: "*output.TableFormatter"},
		{name: "json formatter", format: FormatJSON, expectedType: "*output.JSONFormatter"},
		{name: "yaml formatter", format: FormatYAML, expectedType: "*output.YAMLFormatter"},
		{name: "text formatter", format: FormatText, expectedType: "*output.TextFormatter"},
		{name: "empty format defaults to table", format: "", expectedType: "*output.TableFormatter"},
		{name: "unknown format defaults to table", format: "unknown", expectedType: "*output.TableFormatter"},
		{
			name:         "table with multiple options",
			format:       FormatTable,
			opts:         []Option{WithNoColor(true), WithNoHeaders(true), WithWide(true)},
			expectedType: "*output.TableFormatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(tt.format, tt.opts...)
			if got := fmt.Sprintf("%T", formatter); got != tt.expectedType {
				t.Errorf("got %s, want %s", got, tt.expectedType)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	opts := &Options{}
	for _, opt := range []Option{WithNoColor(true), WithNoHeaders(true), WithWide(true)} {
		opt(opts)
	}

	if !opts.NoColor || !opts.NoHeaders || !opts.Wide {
		t.Errorf("options not applied: %+v", opts)
	}
}

func TestFormatters_EmptyResults(t *testing.T) {
	for _, format := range Formats() {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewFormatter(format, WithNoColor(true)).FormatResults(&buf, action.Empty()); err != nil {
				t.Errorf("FormatResults() error = %v", err)
			}
		})
	}
}
