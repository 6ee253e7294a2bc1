package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aryankumar/sep/pkg/version"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for sep",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd)
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")
	w := cmd.OutOrStdout()

	switch outputFormat {
	case "json":
		data, err := info.JSON()
		if err != nil {
			return fmt.Errorf("failed to marshal version info to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, data)
		return err
	case "yaml":
		data, err := info.YAML()
		if err != nil {
			return fmt.Errorf("failed to marshal version info to YAML: %w", err)
		}
		_, err = fmt.Fprint(w, data)
		return err
	case "table":
		return outputTable(w, info)
	default:
		// Default to human-readable format
		_, err := fmt.Fprintln(w, info.String())
		return err
	}
}

func outputTable(out io.Writer, info version.Info) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tVALUE")
	fmt.Fprintf(w, "Version\t%s\n", info.Version)
	fmt.Fprintf(w, "Commit\t%s\n", info.Commit)
	fmt.Fprintf(w, "Build Time\t%s\n", info.BuildTime)
	fmt.Fprintf(w, "Go Version\t%s\n", info.GoVersion)
	fmt.Fprintf(w, "Platform\t%s\n", info.Platform)
	return w.Flush()
}
