package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"modelboard/internal/api"
	"modelboard/internal/logging"
	"modelboard/internal/panel"
	"modelboard/internal/prefs"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logFile, _ := cmd.Flags().GetString("log-file")
		if logFile == "" {
			logFile = cfg.LogFile
		}
		pollSeconds, _ := cmd.Flags().GetInt("poll-interval")
		if !cmd.Flags().Changed("poll-interval") && cfg.PollInterval > 0 {
			pollSeconds = cfg.PollInterval
		}
		prefsPath, _ := cmd.Flags().GetString("prefs-file")
		if prefsPath == "" {
			prefsPath = cfg.PrefsFile
		}
		if prefsPath == "" {
			prefsPath, err = prefs.DefaultPath()
			if err != nil {
				return fmt.Errorf("failed to locate preference file: %w", err)
			}
		}

		store, err := prefs.Open(prefsPath)
		if err != nil {
			return fmt.Errorf("failed to open preferences: %w", err)
		}

		log, err := logging.File(logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}

		client := api.New(serverURL)
		return panel.Run(client, store, log, time.Duration(pollSeconds)*time.Second)
	},
}

func init() {
	panelCmd.Flags().String("log-file", "", "append structured logs to this file (default: discard)")
	panelCmd.Flags().Int("poll-interval", 5, "seconds between snapshot refreshes")
	panelCmd.Flags().String("prefs-file", "", "display preference file (default: user config dir)")
	rootCmd.AddCommand(panelCmd)
}
