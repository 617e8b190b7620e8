package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"crystaldb/pkg/config"
	"crystaldb/pkg/exclusion"
	"crystaldb/pkg/logger"
	"crystaldb/pkg/structures"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a summary of the local structure database",
	Long: `Load the local structure database and exclusion list and print a
summary table: how many records are stored and how well the optional
fields (details, pH, temperature, method, resolution, linked
publication) are populated.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := structures.NewStore(cfg.Output.StructuresFile)
	if err := store.Load(); err != nil {
		return fmt.Errorf("failed to load structure store: %w", err)
	}

	excluded := exclusion.NewSet(cfg.Output.ExclusionsFile)
	if err := excluded.Load(); err != nil {
		return fmt.Errorf("failed to load exclusion set: %w", err)
	}

	var withDetails, withPH, withTemp, withMethod, withResolution, withPMC int
	for _, s := range store.Records() {
		if s.HasDetails() {
			withDetails++
		}
		if s.PH != nil {
			withPH++
		}
		if s.Temperature != nil {
			withTemp++
		}
		if s.Method != nil {
			withMethod++
		}
		if s.Resolution != nil {
			withResolution++
		}
		if s.PMCID != nil {
			withPMC++
		}
	}

	total := store.Len()
	rows := [][]string{
		{"Stored structures", strconv.Itoa(total), ""},
		{"With details", strconv.Itoa(withDetails), coverage(withDetails, total)},
		{"With pH", strconv.Itoa(withPH), coverage(withPH, total)},
		{"With temperature", strconv.Itoa(withTemp), coverage(withTemp, total)},
		{"With method", strconv.Itoa(withMethod), coverage(withMethod, total)},
		{"With resolution", strconv.Itoa(withResolution), coverage(withResolution, total)},
		{"With linked publication", strconv.Itoa(withPMC), coverage(withPMC, total)},
		{"Excluded (no details)", strconv.Itoa(excluded.Len()), ""},
	}

	fmt.Println(renderTable(
		[]string{"Metric", "Count", "Coverage"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
	))

	return nil
}

func coverage(count, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}
