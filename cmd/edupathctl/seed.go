package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"edupath/internal/catalog"
	"edupath/internal/config"
	"edupath/internal/db"
	"edupath/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the embedded catalog into a store",
	Long:  "Load the embedded question bank, inventory, career paths and timeline into SQLite or Postgres. Safe to re-run: every write is an upsert.",
	RunE:  runSeed,
}

var (
	seedDriver      string
	seedSQLitePath  string
	seedDatabaseURL string
)

func init() {
	seedCmd.Flags().StringVar(&seedDriver, "driver", config.StorageSQLite, "Target store: sqlite or postgres")
	seedCmd.Flags().StringVar(&seedSQLitePath, "sqlite-path", "edupath.db", "SQLite file (driver sqlite)")
	seedCmd.Flags().StringVar(&seedDatabaseURL, "db-url", "", "Postgres URL (driver postgres, overrides DATABASE_URL)")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var stores repository.Stores
	switch seedDriver {
	case config.StorageSQLite:
		conn, err := db.OpenSQLite(ctx, seedSQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer conn.Close()
		stores = repository.NewSQLiteStores(conn, cat)
	case config.StoragePostgres:
		url := seedDatabaseURL
		if url == "" {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			url = cfg.DatabaseURL
		}
		if url == "" {
			return fmt.Errorf("database url is required (set DATABASE_URL or use --db-url)")
		}
		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		if err := db.ApplyPostgresSchema(ctx, pool); err != nil {
			return err
		}
		stores = repository.NewPgStores(pool)
	default:
		return fmt.Errorf("unknown driver %q (expected sqlite or postgres)", seedDriver)
	}

	if err := stores.Seed(ctx, cat); err != nil {
		return err
	}
	logger.Info("catalog seeded",
		zap.String("driver", seedDriver),
		zap.Int("questions", len(cat.Questions)),
		zap.Int("colleges", len(cat.Inventory.Colleges)),
		zap.Int("courses", len(cat.Inventory.Courses)),
		zap.Int("scholarships", len(cat.Inventory.Scholarships)),
	)
	return nil
}
