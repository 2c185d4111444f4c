package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
)

// EnsureReferenceData loads the seed states and districts into an empty catalog.
// A catalog that already holds states is left as is, so edits made through the
// seed command survive restarts.
func EnsureReferenceData(ctx context.Context, catalog reference.Catalog) error {
	if catalog == nil {
		return fmt.Errorf("catalog is required")
	}

	states, err := catalog.ListStates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list states: %w", err)
	}
	if len(states) > 0 {
		slog.Debug("Reference data already present", "states", len(states))
		return nil
	}

	return SeedReferenceData(ctx, catalog)
}

// SeedReferenceData upserts the seed states and districts
func SeedReferenceData(ctx context.Context, catalog reference.Catalog) error {
	if err := catalog.Upsert(ctx, reference.SeedStates, reference.SeedDistricts); err != nil {
		return fmt.Errorf("failed to upsert reference data: %w", err)
	}

	slog.InfoContext(ctx, "Reference data seeded",
		"states", len(reference.SeedStates),
		"districts", len(reference.SeedDistricts),
	)
	return nil
}
