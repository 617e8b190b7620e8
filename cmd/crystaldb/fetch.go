package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"crystaldb/pkg/config"
	"crystaldb/pkg/exclusion"
	"crystaldb/pkg/fetcher"
	"crystaldb/pkg/logger"
	"crystaldb/pkg/rcsb"
	"crystaldb/pkg/structures"
)

var (
	// Fetch command flags
	fetchBatchSize  int
	fetchDelay      time.Duration
	fetchIDsFile    string
	structuresFile  string
	exclusionsFile  string
	onlyWithDetails bool
	skipExcluded    bool
	skipCompleted   bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download crystallization metadata for all PDB entries",
	Long: `Download crystallization metadata for every entry currently deposited
in the PDB, or for the entry IDs read from a local JSON file.

Progress is saved after every batch. Interrupting the run (Ctrl-C) flushes
the in-memory state to disk first, so a later invocation resumes with at
most one batch of work repeated.`,
	Example: `  # Fetch everything the PDB currently holds
  crystaldb fetch

  # Re-check entries already in the local database
  crystaldb fetch --skip-completed=false

  # Keep entries even when they have no crystallization details text
  crystaldb fetch --only-with-details=false

  # Fetch a specific ID list exported earlier with 'crystaldb ids'
  crystaldb fetch --ids-file pdbids.json --batch-size 500`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchBatchSize, "batch-size", 1000, "entry IDs per request")
	fetchCmd.Flags().DurationVar(&fetchDelay, "delay", 100*time.Millisecond, "delay between requests")
	fetchCmd.Flags().StringVar(&fetchIDsFile, "ids-file", "", "JSON file with entry IDs to fetch (default: all current PDB entries)")
	fetchCmd.Flags().StringVar(&structuresFile, "structures-file", "", "path to the structure database file")
	fetchCmd.Flags().StringVar(&exclusionsFile, "exclusions-file", "", "path to the exclusion list file")
	fetchCmd.Flags().BoolVar(&onlyWithDetails, "only-with-details", true, "store only entries with crystallization details")
	fetchCmd.Flags().BoolVar(&skipExcluded, "skip-excluded", true, "skip entries known to lack details")
	fetchCmd.Flags().BoolVar(&skipCompleted, "skip-completed", true, "skip entries already in the database")
}

func runFetch(cmd *cobra.Command, args []string) error {
	flags := globalFlags()
	if cmd.Flags().Changed("batch-size") {
		flags["batch-size"] = fetchBatchSize
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = fetchDelay
	}
	if cmd.Flags().Changed("only-with-details") {
		flags["only-with-details"] = onlyWithDetails
	}
	if cmd.Flags().Changed("skip-excluded") {
		flags["skip-excluded"] = skipExcluded
	}
	if cmd.Flags().Changed("skip-completed") {
		flags["skip-completed"] = skipCompleted
	}
	if structuresFile != "" {
		flags["structures-file"] = structuresFile
	}
	if exclusionsFile != "" {
		flags["exclusions-file"] = exclusionsFile
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	// Flush-on-interrupt: the fetch loop checks this context between
	// batches and saves both files before returning.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := rcsb.NewClient(cfg.RCSB, log)

	universe, err := loadUniverse(client)
	if err != nil {
		log.WithError(err).Error("failed to determine entry ID universe")
		return err
	}

	store := structures.NewStore(cfg.Output.StructuresFile)
	excluded := exclusion.NewSet(cfg.Output.ExclusionsFile)

	f := fetcher.New(client, store, excluded, &cfg.Fetch)

	records, err := f.Fetch(ctx, universe)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.WithField("records", len(records)).Warn("fetch interrupted, progress saved to disk")
			return err
		}
		log.WithError(err).Error("fetch failed")
		return err
	}

	log.WithFields(map[string]interface{}{
		"records":  len(records),
		"excluded": excluded.Len(),
	}).Info("fetch completed successfully")

	return nil
}

// loadUniverse reads the entry ID universe from the --ids-file when
// given, otherwise from the remote holdings endpoint.
func loadUniverse(client *rcsb.Client) ([]string, error) {
	if fetchIDsFile == "" {
		return client.ListAllIdentifiers()
	}

	data, err := os.ReadFile(fetchIDsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read IDs file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to parse IDs file: %w", err)
	}

	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if !rcsb.IsValidEntryID(id) {
			logger.WithField("id", id).Warn("skipping malformed entry ID")
			continue
		}
		valid = append(valid, id)
	}

	return valid, nil
}
