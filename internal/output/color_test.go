package output

import (
	"bytes"
	"testing"
)

func TestNewColorScheme(t *testing.T) {
	tests := []struct {
		name    string
		noColor bool
	}{
		{name: "colors disabled with noColor flag", noColor: true},
		{name: "colors disabled for non-TTY", noColor: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := NewColorScheme(&bytes.Buffer{}, tt.noColor)

			if !cs.Disabled {
				t.Error("colors should be disabled for a buffer")
			}

			for name, fn := range map[string]func(string, ...interface{}) string{
				"Name":     cs.Name,
				"Success":  cs.Success,
				"Error":    cs.Error,
				"Warning":  cs.Warning,
				"Header":   cs.Header,
				"Duration": cs.Duration,
			} {
				if fn == nil {
					t.Errorf("%s function is nil", name)
				}
			}
		})
	}
}

func TestColorScheme_Functions(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	tests := []struct {
		name     string
		fn       func(format string, a ...interface{}) string
		format   string
		args     []interface{}
		expected string
	}{
		{name: "Name", fn: cs.Name, format: "foo_%d", args: []interface{}{1}, expected: "foo_1"},
		{name: "Success", fn: cs.Success, format: "%s", args: []interface{}{"HEALTHY"}, expected: "HEALTHY"},
		{name: "Error", fn: cs.Error, format: "error: %s", args: []interface{}{"failed"}, expected: "error: failed"},
		{name: "Header", fn: cs.Header, format: "NAME", expected: "NAME"},
		{name: "Duration", fn: cs.Duration, format: "%dms", args: []interface{}{100}, expected: "100ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.format, tt.args...); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestColorScheme_StatusColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if got := cs.StatusColor(false)("OK"); got != "OK" {
		t.Errorf("success color = %q", got)
	}
	if got := cs.StatusColor(true)("FAILED"); got != "FAILED" {
		t.Errorf("failure color = %q", got)
	}
}

func TestIsTTY(t *testing.T) {
	if isTTY(&bytes.Buffer{}) {
		t.Error("isTTY(bytes.Buffer) = true, want false")
	}
}
