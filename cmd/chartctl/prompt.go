package main

import (
	"fmt"

	"chartcraft/pkg/recommendation"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <file>",
	Short: "Print the recommendation prompt built for a dataset file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, name, err := loadTable(args[0])
		if err != nil {
			return err
		}
		prompt, err := recommendation.BuildPrompt(recommendation.PromptInput{
			Name:       name,
			Rows:       t.Rows,
			Summaries:  recommendation.BuildSummary(t.Columns, t.Rows),
			SampleRows: v.GetInt("sample_rows"),
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if showSystem, _ := cmd.Flags().GetBool("system"); showSystem {
			fmt.Fprintln(out, recommendation.SystemPrompt)
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, prompt)
		return nil
	},
}

func init() {
	promptCmd.Flags().Bool("system", false, "also print the system prompt")
	rootCmd.AddCommand(promptCmd)
}
