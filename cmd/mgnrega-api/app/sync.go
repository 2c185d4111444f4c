package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	dashboardapp "github.com/stacklok/mgnrega-dashboard-server/internal/app"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one sync and exit",
		Long: `Fetch MGNREGA data from data.gov.in, normalize it and upsert it into storage,
then print the sync result as JSON. Falls back to the synthetic data set
when the upstream is unavailable, exactly like a scheduled sync.`,
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dashboard, err := dashboardapp.NewDashboardApp(ctx, dashboardapp.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create dashboard app: %w", err)
	}
	defer dashboard.Close()

	result, err := dashboard.SyncOnce(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format sync result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return err
}
