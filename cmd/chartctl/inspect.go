package main

import (
	"fmt"
	"text/tabwriter"

	"chartcraft/pkg/recommendation"

	"github.com/spf13/cobra"
)

var inspectJSON bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show inferred column types and summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, name, err := loadTable(args[0])
		if err != nil {
			return err
		}
		summaries := recommendation.BuildSummary(t.Columns, t.Rows)
		out := cmd.OutOrStdout()
		if inspectJSON {
			return writeJSON(out, map[string]any{
				"name":    name,
				"format":  t.Format,
				"rows":    len(t.Rows),
				"columns": summaries,
			})
		}

		fmt.Fprintf(out, "%s (%s): %d rows, %d columns\n", name, t.Format, len(t.Rows), len(t.Columns))
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "COLUMN\tTYPE\tSUMMARY")
		for _, s := range summaries {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Column.Name, s.Column.Type, s.Summary)
		}
		return tw.Flush()
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print JSON instead of a table")
	rootCmd.AddCommand(inspectCmd)
}
