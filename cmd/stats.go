package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelboard/internal/api"
	"modelboard/internal/panel"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate throughput statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		metrics, err := client.Metrics(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch metrics: %w", err)
		}
		s := panel.Aggregate(metrics)
		fmt.Printf("Requests:       %d\n", s.TotalRequests)
		fmt.Printf("Input tokens:   %d\n", s.TotalInputTokens)
		fmt.Printf("Output tokens:  %d\n", s.TotalOutputTokens)
		fmt.Printf("Avg tok/s:      %s\n", s.AvgFormatted())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
