package app

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stacklok/mgnrega-dashboard-server/database"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool",
		Long:  `Database migration tool for managing schema versions. Use with 'up' or 'down' subcommands.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	cmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back database migrations",
		Long: `Roll back database migrations.
WARNING: This operation can result in data loss. Use with caution.

Examples:
  # Roll back one migration
  mgnrega-api migrate down --config config.yaml --num-steps 1 --yes

  # Roll back everything (WARNING: destroys all data)
  mgnrega-api migrate down --config config.yaml --yes`,
		RunE: runMigrateDown,
	}
	down.Flags().UintP("num-steps", "n", 0, "Number of migrations to roll back (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending database migrations",
		Long: `Apply all pending database migrations to bring the schema up to date.
The connection parameters are read from the database section of the config file.`,
		RunE: runMigrateUp,
	})
	cmd.AddCommand(down)

	return cmd
}

// migrationTarget loads the config and returns the connection string and
// a printable description of the database
func migrationTarget(cmd *cobra.Command) (connString, target string, err error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return "", "", err
	}
	if cfg.Database == nil {
		return "", "", fmt.Errorf("database configuration is required")
	}

	connString, err = cfg.Database.GetConnectionString()
	if err != nil {
		return "", "", fmt.Errorf("failed to build connection string: %w", err)
	}
	return connString, describeDatabase(cfg.Database), nil
}

func describeDatabase(d *config.DatabaseConfig) string {
	return fmt.Sprintf("%s@%s:%d/%s", d.User, d.Host, d.Port, d.Database)
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	connString, target, err := migrationTarget(cmd)
	if err != nil {
		return err
	}

	ok, err := confirm(cmd, fmt.Sprintf("About to apply migrations to database %s.", target))
	if err != nil || !ok {
		return err
	}

	slog.Info("Applying database migrations", "database", target)
	if err := database.MigrateUp(connString); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logVersion(connString)
	return nil
}

func runMigrateDown(cmd *cobra.Command, _ []string) error {
	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	connString, target, err := migrationTarget(cmd)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf("About to roll back %d migration(s) on database %s.", numSteps, target)
	if numSteps == 0 {
		prompt = fmt.Sprintf("About to roll back ALL migrations on database %s. This destroys all data.", target)
	}
	ok, err := confirm(cmd, prompt)
	if err != nil || !ok {
		return err
	}

	slog.Info("Rolling back database migrations", "database", target, "steps", numSteps)
	if err := database.MigrateDown(connString, int(numSteps)); err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}

	logVersion(connString)
	return nil
}

func logVersion(connString string) {
	version, dirty, err := database.GetVersion(connString)
	switch {
	case err != nil:
		slog.Warn("Unable to get migration version", "error", err)
	case dirty:
		slog.Warn("Database is in a dirty state", "version", version)
	default:
		slog.Info("Migrations applied successfully", "version", version)
	}
}

// confirm asks for a yes/no answer on the command input unless --yes was given
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return false, fmt.Errorf("failed to get yes flag: %w", err)
	}
	if yes {
		return true, nil
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s Continue? (yes/no): ", prompt); err != nil {
		return false, err
	}
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(response)) {
	case "yes", "y":
		return true, nil
	default:
		slog.Info("Cancelled by user")
		return false, nil
	}
}
