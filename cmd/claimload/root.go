package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gyeh/claimtrack/internal/config"
)

var cfg config.Config
var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "claimload",
	Short: "Insurance claim CSV → Postgres ingestion tool",
	Long:  "Bulk-uploads claim spreadsheets with fill-only-if-blank reconciliation, and runs the row-at-a-time operational loader.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile == "" {
			return nil
		}
		return cfg.LoadFromFile(cfgFile)
	},
}

func init() {
	// A local .env can supply DATABASE_URL during development.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfgFile, "config", "", "Optional YAML config with ops overrides")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
