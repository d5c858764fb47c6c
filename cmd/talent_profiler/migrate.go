package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-profiler/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the company and company_news tables",
	Long:  `Create the pgvector extension and the company and company_news tables if they do not exist.`,
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		return errMissingDatabaseURL
	}

	ctx := contextOrBackground(cmd.Context())
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.WithLogger(log))
	if err != nil {
		return err
	}
	defer database.Close()

	return database.Migrate(ctx)
}
