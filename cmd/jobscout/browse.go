package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/browse"
)

var browseCmd = &cobra.Command{
	Use:   "browse <query>",
	Short: "Search and browse listings in an interactive terminal UI",
	Long: `Browse runs the same aggregation as search, then opens the merged
results in an interactive list. Selecting a listing fetches its full
description on demand.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		params, err := buildSearchParams(strings.Join(args, " "))
		if err != nil {
			return err
		}

		coordinator, _ := buildEngine(cfg, logger)
		result := coordinator.Search(cmd.Context(), params, searchSources)

		return browse.Run(result, coordinator)
	},
}

func init() {
	browseCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location filter")
	browseCmd.Flags().StringVarP(&searchJobType, "type", "t", "", "job type: fulltime, parttime, contract, temporary, internship")
	browseCmd.Flags().BoolVar(&searchRemote, "remote", false, "remote positions only")
	browseCmd.Flags().StringVarP(&searchExperience, "experience", "e", "", "experience level: entry, mid, senior")
	browseCmd.Flags().StringVarP(&searchDatePosted, "date-posted", "d", "", "recency window: day, week, month")
	browseCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results")
	browseCmd.Flags().StringSliceVarP(&searchSources, "source", "s", nil, "sources to query (repeatable)")
	rootCmd.AddCommand(browseCmd)
}
