package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sdlc-quest/internal/catalog"
	"sdlc-quest/internal/config"
	"sdlc-quest/internal/infra/postgres"
	"sdlc-quest/internal/infra/sqlite"
	"sdlc-quest/internal/logger"
)

// NewSeedCmd writes the built-in level catalog into the configured stores.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Upsert the built-in levels into postgres and/or sqlite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			defer log.Sync()
			return runSeed(cmd.Context(), cfg, log)
		},
	}
}

func runSeed(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	if cfg.Postgres.URL == "" && cfg.SQLite.Path == "" {
		return fmt.Errorf("nothing to seed: configure postgres.url or sqlite.path")
	}
	levels := catalog.Levels()

	if cfg.Postgres.URL != "" {
		db, err := openBun(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrateDB(ctx, db, log); err != nil {
			return err
		}
		if err := postgres.NewSeeder(db).Seed(ctx, levels); err != nil {
			return err
		}
		log.Info("seeded postgres", zap.Int("levels", len(levels)))
	}

	if cfg.SQLite.Path != "" {
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(ctx, levels); err != nil {
			return err
		}
		log.Info("seeded sqlite", zap.String("path", cfg.SQLite.Path), zap.Int("levels", len(levels)))
	}
	return nil
}
