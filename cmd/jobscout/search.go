package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/model"
	"github.com/avetisov/jobscout/internal/store"
)

var (
	searchLocation   string
	searchJobType    string
	searchRemote     bool
	searchExperience string
	searchDatePosted string
	searchLimit      int
	searchSort       string
	searchSources    []string
	searchSave       bool
	searchJSON       bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search job listings across all requested sources",
	Long: `Search runs one aggregation: every requested source is queried in
parallel through its fallback chain and the merged, deduplicated listings are
printed. Failed sources are reported as warnings and never abort the search.`,
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

		if searchSave && len(result.Jobs) > 0 {
			db, err := store.NewSQLiteStore(cfg.Store.Path)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer db.Close()

			saved, err := db.SaveJobs(result.Jobs)
			if err != nil {
				return fmt.Errorf("saving jobs: %w", err)
			}
			logger.Info("saved jobs", "new", saved, "total", len(result.Jobs), "path", cfg.Store.Path)
		}

		if searchJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "location filter (e.g. \"Berlin\", \"remote\")")
	searchCmd.Flags().StringVarP(&searchJobType, "type", "t", "", "job type: fulltime, parttime, contract, temporary, internship")
	searchCmd.Flags().BoolVar(&searchRemote, "remote", false, "remote positions only")
	searchCmd.Flags().StringVarP(&searchExperience, "experience", "e", "", "experience level: entry, mid, senior")
	searchCmd.Flags().StringVarP(&searchDatePosted, "date-posted", "d", "", "recency window: day, week, month")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = source default)")
	searchCmd.Flags().StringVar(&searchSort, "sort", "", "sort order: relevance, date")
	searchCmd.Flags().StringSliceVarP(&searchSources, "source", "s", nil, "sources to query (repeatable; default: configured default source)")
	searchCmd.Flags().BoolVar(&searchSave, "save", false, "persist results to the local database")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(searchCmd)
}

// buildSearchParams validates the enum-valued flags and assembles the search
// input. Empty flag values mean "no filter".
func buildSearchParams(query string) (model.SearchParams, error) {
	params := model.SearchParams{
		Query:    query,
		Location: searchLocation,
		Remote:   searchRemote,
		Limit:    searchLimit,
	}

	switch jt := model.JobType(searchJobType); jt {
	case model.JobTypeAny, model.JobTypeFullTime, model.JobTypePartTime,
		model.JobTypeContract, model.JobTypeTemporary, model.JobTypeInternship:
		params.JobType = jt
	default:
		return params, fmt.Errorf("invalid job type %q", searchJobType)
	}

	switch exp := model.ExperienceLevel(searchExperience); exp {
	case model.ExperienceAny, model.ExperienceEntry, model.ExperienceMid, model.ExperienceSenior:
		params.Experience = exp
	default:
		return params, fmt.Errorf("invalid experience level %q", searchExperience)
	}

	switch dw := model.DateWindow(searchDatePosted); dw {
	case model.DateAny, model.DatePastDay, model.DatePastWeek, model.DatePastMonth:
		params.DatePosted = dw
	default:
		return params, fmt.Errorf("invalid date window %q", searchDatePosted)
	}

	switch so := model.SortOrder(searchSort); so {
	case "", model.SortRelevance, model.SortDate:
		params.Sort = so
	default:
		return params, fmt.Errorf("invalid sort order %q", searchSort)
	}

	return params, nil
}

func printResult(result model.AggregationResult) {
	if len(result.Jobs) == 0 {
		fmt.Println("No listings found.")
	} else {
		fmt.Printf("%-40s %-25s %-20s %-10s %s\n", "TITLE", "COMPANY", "LOCATION", "SOURCE", "POSTED")
		fmt.Println(strings.Repeat("─", 110))
		for _, j := range result.Jobs {
			posted := ""
			if !j.PostedAt.IsZero() {
				posted = j.PostedAt.Format("Jan 2")
			}
			fmt.Printf("%-40s %-25s %-20s %-10s %s\n",
				truncate(j.Title, 40),
				truncate(j.Company, 25),
				truncate(j.Location, 20),
				j.Platform,
				posted,
			)
		}
		fmt.Printf("\n%d listing(s)\n", len(result.Jobs))
	}

	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %s\n", e)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
