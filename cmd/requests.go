package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"modelboard/internal/api"
	"modelboard/internal/panel"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect and abort in-flight generation requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active generation requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		reqs, err := client.ListActiveRequests(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}
		if len(reqs) == 0 {
			fmt.Println("No active requests.")
			return nil
		}
		now := time.Now()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tMODEL\tELAPSED")
		for _, r := range reqs {
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.ID, r.Model, panel.FormatElapsed(r.StartTime, now))
		}
		return w.Flush()
	},
}

var requestsAbortCmd = &cobra.Command{
	Use:   "abort <id>",
	Short: "Abort one in-flight request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		if err := client.AbortRequest(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to abort request: %w", err)
		}
		fmt.Printf("Abort requested: %s\n", args[0])
		return nil
	},
}

func init() {
	requestsCmd.AddCommand(requestsListCmd)
	requestsCmd.AddCommand(requestsAbortCmd)
	rootCmd.AddCommand(requestsCmd)
}
