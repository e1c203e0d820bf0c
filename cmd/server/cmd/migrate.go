package cmd

import (
	"fmt"

	"github.com/internlog/server/internal/config"
	"github.com/internlog/server/internal/storage/postgres"
	"github.com/spf13/cobra"
)

func newMigrateCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long: `Apply or roll back the SQL migrations under MIGRATIONS_PATH
(default: internal/storage/postgres/migrations).`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := migrateConfig(global)
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be greater than zero")
			}
			cfg, err := migrateConfig(global)
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(cfg.Database.URL, cfg.Database.MigrationsPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := migrateConfig(global)
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(cfg.Database.URL, cfg.Database.MigrationsPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty:   %t\n", version, dirty)
			return nil
		},
	})

	return cmd
}

func migrateConfig(global *globalOptions) (config.Config, error) {
	cfg, err := loadConfig(global)
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}
