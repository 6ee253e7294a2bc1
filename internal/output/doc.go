// Package output renders result sets for the sep CLI and HTTP surface.
//
// Four formats are supported:
//
//   - table: kubectl-style borderless table with a summary line
//   - json: an object keyed by action name
//   - yaml: a mapping keyed by action name
//   - text: one "name : HEALTHY" or "name : <message>" line per result
//
// Entries are always ordered by name. Colors are enabled only for terminals
// and can be disabled with WithNoColor. WithWide adds a data column to tables
// and durations to structured output.
//
//	formatter := output.NewFormatter(output.FormatTable, output.WithWide(true))
//	formatter.FormatResults(os.Stdout, results)
package output
