package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avetisov/jobscout/internal/store"
)

var (
	savedLimit int
	savedJSON  bool
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List jobs previously saved with search --save",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer db.Close()

		jobs, err := db.ListSaved(savedLimit)
		if err != nil {
			return fmt.Errorf("listing saved jobs: %w", err)
		}

		if savedJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(jobs)
		}

		if len(jobs) == 0 {
			fmt.Println("No saved jobs.")
			return nil
		}

		fmt.Printf("%-40s %-25s %-20s %s\n", "TITLE", "COMPANY", "LOCATION", "SOURCE")
		fmt.Println(strings.Repeat("─", 100))
		for _, j := range jobs {
			fmt.Printf("%-40s %-25s %-20s %s\n",
				truncate(j.Title, 40),
				truncate(j.Company, 25),
				truncate(j.Location, 20),
				j.Platform,
			)
		}
		fmt.Printf("\n%d saved job(s)\n", len(jobs))
		return nil
	},
}

func init() {
	savedCmd.Flags().IntVarP(&savedLimit, "limit", "n", 0, "maximum number of rows (0 = all)")
	savedCmd.Flags().BoolVar(&savedJSON, "json", false, "print saved jobs as JSON")
	rootCmd.AddCommand(savedCmd)
}
