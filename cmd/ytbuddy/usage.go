package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/ytbuddy/internal/adapter/presenter"
	"github.com/johnquangdev/ytbuddy/internal/app"
)

func init() {
	rootCmd.AddCommand(usageCmd)
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show generation usage and cached artifact counts",
	Long: `Show generation usage. Call counters are per process; the cached
artifact count reflects the configured cache backend.`,
	Args: cobra.NoArgs,
	RunE: runUsage,
}

func runUsage(cmd *cobra.Command, _ []string) error {
	return withContainer(cmd.Context(), func(c *app.Container) error {
		resp := presenter.ToUsageResponse(c.Gateway.Usage(cmd.Context()), c.Clock.Now())

		if !humanOutput {
			return outputJSON(resp)
		}
		m := resp.Metrics
		fmt.Printf("Model:          %s\n", m.CurrentModel)
		fmt.Printf("Total requests: %d\n", m.TotalRequests)
		fmt.Printf("Quota failures: %d\n", m.QuotaFailures)
		fmt.Printf("Cached entries: %d\n", m.CacheHits)
		return nil
	})
}
