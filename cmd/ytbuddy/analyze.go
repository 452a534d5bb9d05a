package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/ytbuddy/internal/adapter/presenter"
	"github.com/johnquangdev/ytbuddy/internal/app"
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Summarize a video and list its key points",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	return withContainer(cmd.Context(), func(c *app.Container) error {
		analysis, err := c.Video.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if !humanOutput {
			return outputJSON(presenter.ToAnalyzeResponse(analysis))
		}
		fmt.Printf("Summary:\n%s\n\nKey points:\n", analysis.Summary)
		for _, p := range analysis.KeyPoints {
			fmt.Printf("  • %s\n", p)
		}
		return nil
	})
}
