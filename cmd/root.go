package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelboard/internal/config"
)

var (
	serverURL  string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "modelboard",
	Short: "modelboard — dashboard for a model-serving daemon",
	Long:  "Modelboard connects to a model daemon's admin API to observe and control the pool of served inference models: load and unload models, watch in-flight generation requests, abort them, and follow throughput stats.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "http://127.0.0.1:8080", "daemon admin API URL")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (.yaml/.json/.toml)")
}

// loadConfig merges the optional settings file under the flag values. Flags
// changed on the command line win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if cfg.ServerURL != "" && !cmd.Flags().Changed("server-url") {
		serverURL = cfg.ServerURL
	}
	return cfg, nil
}
