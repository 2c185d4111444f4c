package app

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	dashboardapp "github.com/stacklok/mgnrega-dashboard-server/internal/app"
	"github.com/stacklok/mgnrega-dashboard-server/internal/app/storage"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference states and districts",
		Long: `Upsert the built-in states and districts, with their Hindi and English names
and coordinates, into the database. Existing rows are updated in place.`,
		RunE: runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.GetStorageType() == config.StorageTypeMemory {
		slog.Warn("Memory storage is seeded on every start, nothing to do")
		return nil
	}

	factory, err := storage.NewStorageFactory(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage factory: %w", err)
	}
	defer factory.Cleanup()

	catalog, err := factory.CreateCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to create reference catalog: %w", err)
	}

	return dashboardapp.SeedReferenceData(ctx, catalog)
}
