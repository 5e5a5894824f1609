package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/claimtrack/internal/db"
	"github.com/gyeh/claimtrack/internal/exitcode"
	"github.com/gyeh/claimtrack/internal/logging"
	"github.com/gyeh/claimtrack/internal/normalize"
	"github.com/gyeh/claimtrack/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print system statistics for the claim store",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	st, err := store.NewPG(pool, cfg.EffectiveBatchSize()).Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to compute statistics")
		os.Exit(exitcode.ProcessError)
	}

	fmt.Println("=== claim store statistics ===")
	fmt.Printf("Total claims:       %d\n", st.TotalClaims)
	fmt.Printf("Flagged claims:     %d\n", st.FlaggedClaims)
	fmt.Printf("Total billed:       $%s\n", normalize.FormatCents(st.TotalBilledCents))
	fmt.Printf("Total paid:         $%s\n", normalize.FormatCents(st.TotalPaidCents))
	fmt.Printf("Avg claim amount:   $%s\n", normalize.FormatCents(st.AvgBilledCents))
	fmt.Printf("Total underpayment: $%s\n", normalize.FormatCents(st.TotalUnderpaidCents))
	fmt.Printf("Avg underpayment:   $%s\n", normalize.FormatCents(st.AvgUnderpaidCents))

	if len(st.ByStatus) > 0 {
		fmt.Println("\nStatus distribution:")
		for _, sc := range st.ByStatus {
			fmt.Printf("  %-15s %6d  (%.1f%%)\n", sc.Status, sc.Count, sc.Percent)
		}
	}
	if len(st.TopInsurers) > 0 {
		fmt.Println("\nTop insurers:")
		for _, ic := range st.TopInsurers {
			fmt.Printf("  %-30s %6d\n", ic.Insurer, ic.Count)
		}
	}
	return nil
}
