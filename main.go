package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"foodscanner/config"
	"foodscanner/database"
	"foodscanner/gallery"
	"foodscanner/logging"
	"foodscanner/scanner"
	"foodscanner/signalhandler"
)

var (
	cfg     config.Config
	cfgPath string

	flagGallery    string
	flagThreshold  float64
	flagMaxResults int
	flagDebug      bool
	flagLogfile    string
)

func main() {
	// Set up proper signal handling before any gocv work starts
	signalhandler.SetupHandler()

	// Set the optimal number of CPUs to use
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "foodscanner",
		Short:         "Match food photos against a labeled reference gallery",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return err
			}

			// Flags override the config file
			if cmd.Flags().Changed("gallery") {
				cfg.GalleryDir = flagGallery
			}
			if cmd.Flags().Changed("threshold") {
				cfg.Threshold = flagThreshold
			}
			if cmd.Flags().Changed("max-results") {
				cfg.MaxResults = flagMaxResults
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if flagDebug {
				if err := logging.SetupLogger(flagLogfile); err != nil {
					fmt.Printf("Warning: Failed to setup logging: %v\n", err)
				} else {
					fmt.Printf("Debug mode enabled. Logging to: %s\n", flagLogfile)
				}
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "foodscanner.toml", "path to config file")
	pf.StringVar(&flagGallery, "gallery", "", "path to the labeled image gallery directory")
	pf.Float64Var(&flagThreshold, "threshold", scanner.DefaultThreshold, "similarity threshold (0.0-1.0)")
	pf.IntVar(&flagMaxResults, "max-results", scanner.DefaultMaxResults, "maximum number of matches to report")
	pf.BoolVar(&flagDebug, "debug", false, "enable debug logging")
	pf.StringVar(&flagLogfile, "logfile", "foodscanner.log", "debug log file path")

	root.AddCommand(newScanCmd(), newLabelCmd(), newListCmd(), newIndexCmd())
	return root
}

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan IMAGE",
		Short: "Compare an image against the gallery and print the best matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queryPath := args[0]
			if _, err := os.Stat(queryPath); err != nil {
				return fmt.Errorf("query image does not exist: %s", queryPath)
			}

			startTime := time.Now()
			outcome, err := scanner.Compare(queryPath, scanner.CompareOptions{
				GalleryDir: cfg.GalleryDir,
				Threshold:  cfg.Threshold,
				RatioTest:  cfg.RatioTest,
				MaxResults: cfg.MaxResults,
				MaxWorkers: cfg.MaxWorkers,
			})
			if err != nil {
				return err
			}

			fmt.Println("Top Matches:")
			for i, match := range outcome.Results() {
				fmt.Printf("%d. %s (score: %.4f)\n", i+1, match.Label, match.Score)
			}
			fmt.Printf("\nTotal scan time: %v\n", time.Since(startTime))
			return nil
		},
	}
}

func newLabelCmd() *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "label IMAGE --label NAME",
		Short: "Store an image in the gallery as a labeled reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			storedPath, err := gallery.SaveLabeled(args[0], label, cfg.GalleryDir)
			if err != nil {
				return err
			}
			fmt.Printf("Image successfully labeled as '%s'\nStored at: %s\n", label, storedPath)

			// Keep the index in step with the write; index failures are
			// reported but never undo a successful label.
			if err := updateIndexEntry(label, storedPath); err != nil {
				logging.LogWarning("Index update failed for %s: %v", label, err)
				fmt.Printf("Warning: gallery index not updated: %v\n", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "label to store the image under")
	cmd.MarkFlagRequired("label")
	return cmd
}

func updateIndexEntry(label, storedPath string) error {
	db, err := database.InitDatabase(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer db.Close()

	storageLabel := strings.TrimSuffix(gallery.StorageFilename(label), gallery.StoredExtension)

	entry, err := scanner.BuildIndexEntry(storageLabel, storedPath)
	if err != nil {
		return err
	}
	return database.UpsertEntry(db, entry)
}

func newListCmd() *cobra.Command {
	var showStats bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the labeled reference images in the gallery",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := gallery.List(cfg.GalleryDir)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("Gallery is empty.")
			} else {
				fmt.Printf("Labeled images (%d):\n", len(entries))
				for _, entry := range entries {
					fmt.Printf("  %s (%s)\n", entry.Display, entry.Filename)
				}
			}

			if showStats {
				db, err := database.InitDatabase(cfg.IndexPath)
				if err != nil {
					return err
				}
				defer db.Close()

				stats, err := database.GetIndexStats(db)
				if err != nil {
					return err
				}
				fmt.Printf("\nIndex: %d entries, %d unique hashes, %d without features\n",
					stats.TotalEntries, stats.UniqueHashes, stats.EmptyFeatures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showStats, "stats", false, "also print gallery index statistics")
	return cmd
}

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the gallery index database from the gallery directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitDatabase(cfg.IndexPath)
			if err != nil {
				return err
			}
			defer db.Close()

			startTime := time.Now()
			stats, err := scanner.RebuildIndex(db, scanner.IndexOptions{
				GalleryDir: cfg.GalleryDir,
				MaxWorkers: cfg.MaxWorkers,
			})
			if err != nil {
				return err
			}

			fmt.Printf("\nIndex rebuilt in %v\n", time.Since(startTime))
			fmt.Printf("- Total entries: %d\n", stats.TotalEntries)
			fmt.Printf("- Unique hashes: %d\n", stats.UniqueHashes)
			fmt.Printf("- Entries without features: %d\n", stats.EmptyFeatures)
			return nil
		},
	}
}
