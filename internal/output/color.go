package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme provides color functions for different output elements
type ColorScheme struct {
	// Name colors action and probe names
	Name func(format string, a ...interface{}) string

	// Success colors successful statuses
	Success func(format string, a ...interface{}) string

	// Error colors failed statuses and messages
	Error func(format string, a ...interface{}) string

	// Warning colors warnings
	Warning func(format string, a ...interface{}) string

	// Header colors table headers
	Header func(format string, a ...interface{}) string

	// Duration colors durations
	Duration func(format string, a ...interface{}) string

	// Disabled indicates colors are off
	Disabled bool
}

// NewColorScheme creates a color scheme. Colors are disabled when noColor is
// set or w is not a terminal.
func NewColorScheme(w io.Writer, noColor bool) *ColorScheme {
	if noColor || !isTTY(w) {
		plain := color.New().Sprintf
		return &ColorScheme{
			Name:     plain,
			Success:  plain,
			Error:    plain,
			Warning:  plain,
			Header:   plain,
			Duration: plain,
			Disabled: true,
		}
	}

	return &ColorScheme{
		Name:     color.New(color.FgCyan, color.Bold).Sprintf,
		Success:  color.New(color.FgGreen).Sprintf,
		Error:    color.New(color.FgRed, color.Bold).Sprintf,
		Warning:  color.New(color.FgYellow).Sprintf,
		Header:   color.New(color.FgWhite, color.Bold).Sprintf,
		Duration: color.New(color.FgBlue).Sprintf,
	}
}

// isTTY checks if the writer is a terminal
func isTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// StatusColor returns the failure color when failed, the success color otherwise
func (cs *ColorScheme) StatusColor(failed bool) func(format string, a ...interface{}) string {
	if failed {
		return cs.Error
	}
	return cs.Success
}
