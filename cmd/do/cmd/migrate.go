package cmd

import (
	"context"
	"fmt"

	"github.com/foodlog/foodlog/internal/config"
	"github.com/foodlog/foodlog/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, conn *sqlx.DB) error {
				return db.RunMigrations(ctx, conn.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, conn *sqlx.DB) error {
				return db.MigrateDown(ctx, conn.DB, cfg.DBDriver)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, cfg *config.Config, conn *sqlx.DB) error {
				version, err := db.MigrationVersion(ctx, conn.DB, cfg.DBDriver)
				if err != nil {
					return err
				}
				fmt.Println("schema version:", version)
				return nil
			})
		},
	})

	return cmd
}

// withDB opens the configured database for the duration of fn.
func withDB(ctx context.Context, fn func(context.Context, *config.Config, *sqlx.DB) error) error {
	cfg := config.Load()

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	return fn(ctx, cfg, conn)
}
