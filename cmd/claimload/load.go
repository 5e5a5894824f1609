package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimtrack/internal/db"
	"github.com/gyeh/claimtrack/internal/exitcode"
	"github.com/gyeh/claimtrack/internal/loader"
	"github.com/gyeh/claimtrack/internal/logging"
	"github.com/gyeh/claimtrack/internal/store"
)

var loadCmd = &cobra.Command{
	Use:   "load <path>",
	Short: "Load a claims file row by row (operational loader)",
	Long:  "Processes one file a row at a time with a progress line per row. Main files (with patient_name) are fully upserted; detail files patch cpt_codes/denial_reason onto existing claims.",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.Format, "format", "csv", "File format: csv, json, or parquet")
	f.BoolVar(&cfg.Clear, "clear", false, "Clear existing claims before loading")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	cfg.FilePath = args[0]
	if err := cfg.ValidateLoad(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	res, err := loader.Run(ctx, store.NewPG(pool, cfg.EffectiveBatchSize()), log, loader.Options{
		Path:   cfg.FilePath,
		Format: cfg.Format,
		Clear:  cfg.Clear,
	})
	if err != nil {
		log.Error().Err(err).Msg("error loading data")
		os.Exit(exitcode.LoadError)
	}

	fmt.Printf("Successfully loaded claims data: %d created, %d updated, %d patched, %d skipped, %d errors\n",
		res.Created, res.Updated, res.Patched, res.Skipped, res.Errors)
	return nil
}
