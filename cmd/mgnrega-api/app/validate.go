package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "✓ Valid configuration")
			_, _ = fmt.Fprintf(out, "  Storage: %s\n", cfg.GetStorageType())
			_, _ = fmt.Fprintf(out, "  Resource: %s\n", cfg.DataSource.GetResourceID())
			_, _ = fmt.Fprintf(out, "  Sync interval: %s\n", cfg.Sync.GetInterval())
			return nil
		},
	}
}
