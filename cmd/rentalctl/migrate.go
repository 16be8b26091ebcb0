package main

import (
	"github.com/spf13/cobra"

	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/internal/platform/database"
	"github.com/yashwanth29-web/Residential-Apartment-Rental-Portal/migrations"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back SQL migrations",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			return database.RunMigrations(e.cfg.Postgres().DatabaseURL(), migrations.FS, e.log)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")

			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			return database.RollbackMigrations(e.cfg.Postgres().DatabaseURL(), migrations.FS, steps, e.log)
		},
	}
	cmd.Flags().Int("steps", 1, "number of migrations to roll back")
	return cmd
}
