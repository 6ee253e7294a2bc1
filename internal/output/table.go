package output

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/aryankumar/sep/internal/action"
	"github.com/olekukonko/tablewriter"
)

const maxCellWidth = 50

// TableFormatter formats output as a table (kubectl-style)
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(f.createTable(w), v)
	case *action.ResultSet:
		return f.FormatResults(w, v)
	default:
		fmt.Fprintln(w, v)
		return nil
	}
}

// FormatResults outputs results as a table followed by a summary line
func (f *TableFormatter) FormatResults(w io.Writer, results *action.ResultSet) error {
	if results.Len() == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"NAME", "STATUS", "CODE", "DURATION", "MESSAGE"}
	if f.options.Wide {
		headers = append(headers, "DATA")
	}

	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			colored := make([]string, len(headers))
			for i, h := range headers {
				colored[i] = colors.Header(h)
			}
			table.SetHeader(colored)
		}
	}

	for name, r := range results.All() {
		table.Append(f.formatResultRow(name, r, colors))
	}

	table.Render()

	f.printSummary(w, results, colors)
	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(name string, r action.Result, colors *ColorScheme) []string {
	status := "Success"
	if !r.OK() {
		status = "Failed"
	}
	duration := r.Duration.Round(time.Millisecond).String()

	if !colors.Disabled {
		name = colors.Name(name)
		status = colors.StatusColor(!r.OK())(status)
		duration = colors.Duration(duration)
	}

	row := []string{name, status, r.Code, duration, truncate(r.Message)}

	if f.options.Wide {
		data := ""
		if r.Data != nil {
			data = truncate(fmt.Sprintf("%v", r.Data))
		}
		row = append(row, data)
	}

	return row
}

func truncate(s string) string {
	if len(s) > maxCellWidth {
		return s[:maxCellWidth-3] + "..."
	}
	return s
}

// formatMap formats a map as a two-column table sorted by key
func (f *TableFormatter) formatMap(table *tablewriter.Table, data map[string]interface{}) error {
	if !f.options.NoHeaders {
		table.SetHeader([]string{"KEY", "VALUE"})
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", data[k])})
	}

	table.Render()
	return nil
}

// createTable creates a new table with kubectl-style configuration
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, results *action.ResultSet, colors *ColorScheme) {
	summary := action.Summarize(results)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := fmt.Sprintf("%d successful", summary.Successful)
	if !colors.Disabled {
		successText = colors.Success(successText)
	}

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if !colors.Disabled && summary.Failed > 0 {
		failedText = colors.Error(failedText)
	}

	durationText := fmt.Sprintf("avg=%s max=%s",
		summary.AvgDuration.Round(time.Millisecond),
		summary.MaxDuration.Round(time.Millisecond))
	if !colors.Disabled {
		durationText = colors.Duration(durationText)
	}

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, strings.TrimSpace(durationText))
}
