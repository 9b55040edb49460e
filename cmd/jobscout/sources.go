package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and their fallback chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		_, registry := buildEngine(cfg, logger)
		names := registry.Sources()

		fmt.Printf("%-15s %-10s %s\n", "SOURCE", "DEFAULT", "FALLBACK CHAIN")
		fmt.Println(strings.Repeat("─", 60))
		for _, name := range names {
			def := ""
			if name == registry.Default() {
				def = "yes"
			}
			fmt.Printf("%-15s %-10s %s\n", name, def, strings.Join(registry.AdapterNames(name), " → "))
		}
		fmt.Printf("\nTotal: %d source(s)\n", len(names))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
