package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"modelboard/internal/api"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect and control the model pool",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List models and their lifecycle state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		models, err := client.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}
		all, _ := cmd.Flags().GetBool("all")

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATE\tDESCRIPTION")
		for _, m := range models {
			if m.Unlisted && !all {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.State, m.Description)
		}
		return w.Flush()
	},
}

var modelsLoadCmd = &cobra.Command{
	Use:   "load <id>",
	Short: "Load a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		if err := client.LoadModel(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to load model: %w", err)
		}
		fmt.Printf("Load requested: %s\n", args[0])
		return nil
	},
}

var modelsUnloadCmd = &cobra.Command{
	Use:   "unload <id>",
	Short: "Unload a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		if err := client.UnloadModel(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to unload model: %w", err)
		}
		fmt.Printf("Unload requested: %s\n", args[0])
		return nil
	},
}

var modelsUnloadAllCmd = &cobra.Command{
	Use:   "unload-all",
	Short: "Unload every loaded model",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		client := api.New(serverURL)
		if err := client.UnloadAllModels(cmd.Context()); err != nil {
			return fmt.Errorf("failed to unload models: %w", err)
		}
		fmt.Println("Bulk unload requested")
		return nil
	},
}

func init() {
	modelsListCmd.Flags().Bool("all", false, "include unlisted models")
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsLoadCmd)
	modelsCmd.AddCommand(modelsUnloadCmd)
	modelsCmd.AddCommand(modelsUnloadAllCmd)
	rootCmd.AddCommand(modelsCmd)
}
