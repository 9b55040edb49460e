package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var detailsJSON bool

var detailsCmd = &cobra.Command{
	Use:   "details <source> <job-id>",
	Short: "Fetch the full record for one listing",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		coordinator, _ := buildEngine(cfg, logger)
		job, err := coordinator.Details(cmd.Context(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("fetching details: %w", err)
		}

		if detailsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(job)
		}

		fmt.Printf("Title:    %s\n", job.Title)
		fmt.Printf("Company:  %s\n", job.Company)
		if job.Location != "" {
			fmt.Printf("Location: %s\n", job.Location)
		}
		if job.Salary != "" {
			fmt.Printf("Salary:   %s\n", job.Salary)
		}
		if job.JobType != "" {
			fmt.Printf("Type:     %s\n", job.JobType)
		}
		fmt.Printf("Source:   %s\n", job.Platform)
		if !job.PostedAt.IsZero() {
			fmt.Printf("Posted:   %s\n", job.PostedAt.Format("Jan 2, 2006"))
		}
		if job.URL != "" {
			fmt.Printf("URL:      %s\n", job.URL)
		}
		if job.Description != "" {
			fmt.Printf("\n%s\n", job.Description)
		}
		return nil
	},
}

func init() {
	detailsCmd.Flags().BoolVar(&detailsJSON, "json", false, "print the job as JSON")
	rootCmd.AddCommand(detailsCmd)
}
