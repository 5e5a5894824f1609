package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimtrack/internal/db"
	"github.com/gyeh/claimtrack/internal/exitcode"
	"github.com/gyeh/claimtrack/internal/ingest"
	"github.com/gyeh/claimtrack/internal/logging"
	"github.com/gyeh/claimtrack/internal/store"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Bulk-upload one or two claim CSV files",
	Long:  "Reconciles the batch against existing claims: new keys are created, existing keys have blank fields filled in. Overwrite mode purges all claims first.",
	RunE:  runUpload,
}

func init() {
	f := uploadCmd.Flags()
	f.StringArrayVar(&cfg.Files, "file", nil, "Path to a claims CSV file (repeat for a second file)")
	f.StringVar(&cfg.Mode, "mode", "append", "Upload mode: append or overwrite")
	_ = uploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateUpload(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	var files []ingest.File
	var closers []*os.File
	for _, path := range cfg.Files {
		f, err := os.Open(path)
		if err != nil {
			log.Error().Err(err).Msg("failed to open file")
			os.Exit(exitcode.ValidationError)
		}
		closers = append(closers, f)
		files = append(files, ingest.File{Name: path, Data: f})
	}
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	svc := ingest.NewService(
		store.NewPG(pool, cfg.EffectiveBatchSize()),
		log,
		cfg.MaxFileBytes(),
	)

	result, err := svc.Upload(ctx, files, ingest.Mode(cfg.Mode))
	if err != nil {
		var ve *ingest.ValidationError
		if errors.As(err, &ve) {
			log.Error().Msg(ve.Msg)
			os.Exit(exitcode.ValidationError)
		}
		log.Error().Err(err).Msg("error processing file")
		os.Exit(exitcode.ProcessError)
	}

	fmt.Println(result.Summary())
	for _, detail := range result.ErrorDetails {
		fmt.Printf("  %s\n", detail)
	}
	return nil
}
