package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"crystaldb/pkg/config"
	"crystaldb/pkg/logger"
	"crystaldb/pkg/rcsb"
)

var idsOutputFile string

// idsCmd represents the ids command
var idsCmd = &cobra.Command{
	Use:   "ids",
	Short: "List every entry ID currently deposited in the PDB",
	Long: `Fetch the complete list of entry IDs currently deposited in the PDB
and print the count. With --output the list is also exported as a JSON
file, which can later be fed to 'crystaldb fetch --ids-file'.`,
	Example: `  # Show how many entries the PDB currently holds
  crystaldb ids

  # Export the full ID list
  crystaldb ids --output pdbids.json`,
	Args: cobra.NoArgs,
	RunE: runIDs,
}

func init() {
	rootCmd.AddCommand(idsCmd)

	idsCmd.Flags().StringVarP(&idsOutputFile, "output", "o", "", "export the ID list to a JSON file")
}

func runIDs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, globalFlags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	client := rcsb.NewClient(cfg.RCSB, log)

	ids, err := client.ListAllIdentifiers()
	if err != nil {
		log.WithError(err).Error("failed to fetch entry ID list")
		return err
	}

	fmt.Printf("%d entries currently deposited in the PDB\n", len(ids))

	if idsOutputFile == "" {
		return nil
	}

	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ID list: %w", err)
	}

	if dir := filepath.Dir(idsOutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(idsOutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write ID list: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"path":  idsOutputFile,
		"count": len(ids),
	}).Info("entry ID list exported")

	return nil
}
