// Command waimport seeds the ride board from a scraped WhatsApp group
// log. It classifies each message, resolves origin and destination
// against a place synonym table and appends the ride-related messages
// to rides.csv as ownerless listings.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/anveshk/rideshare-board/internal/importer"
	"github.com/anveshk/rideshare-board/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waimport",
		Short: "Import WhatsApp group messages as ride listings",
		Long: `waimport reads the whatsapp_log.csv produced by the group scraper
(columns wa_date,wa_time,phone,message), classifies every message and
appends the ride-related ones to the board's rides.csv. Imported rides
have no owner and cannot be edited or deleted through the API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			dataDir, _ := cmd.Flags().GetString("data-dir")
			if dataDir == "" {
				dataDir = os.Getenv("DATA_DIR")
			}
			if dataDir == "" {
				dataDir = "data"
			}
			logPath, _ := cmd.Flags().GetString("log")
			placesPath, _ := cmd.Flags().GetString("places")
			home, _ := cmd.Flags().GetString("home")

			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
			rides := repository.NewRideRepo(filepath.Join(dataDir, "rides.csv"))
			if err := rides.Initialize(); err != nil {
				return err
			}

			res, err := importer.Run(importer.Options{
				LogPath:    logPath,
				PlacesPath: placesPath,
				Home:       home,
			}, rides)
			if err != nil {
				return err
			}
			fmt.Printf("scanned %d rows: %d rides imported, %d general, %d duplicates\n",
				res.Scanned, res.Imported, res.General, res.Duplicates)
			return nil
		},
	}

	cmd.Flags().String("log", "whatsapp_log.csv", "scraped WhatsApp log to read")
	cmd.Flags().String("places", "places.txt", "place synonym table, one \"canonical = synonym = synonym\" line per place")
	cmd.Flags().String("data-dir", "", "board data directory (defaults to DATA_DIR, then ./data)")
	cmd.Flags().String("home", "state college", "place implied as origin when a message only names a destination")
	return cmd
}
