package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/notifier"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification helpers",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification to verify the configured channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		httpClient := &http.Client{Timeout: 10 * time.Second}
		n := setupNotifier(cfg, httpClient, logger)

		if err := notifier.SendTestMessage(n); err != nil {
			return fmt.Errorf("sending test notification: %w", err)
		}
		fmt.Println("Test notification sent.")
		return nil
	},
}

func init() {
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}
