package main

import (
	"errors"
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/ytbuddy/internal/infrastructure/database"
)

var migrateSteps int

func init() {
	migrateCmd.PersistentFlags().IntVar(&migrateSteps, "steps", 0, "Maximum number of migrations to apply (0 = all)")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the transcript database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(migrate.Up)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations (one step unless --steps is set)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if migrateSteps == 0 {
			migrateSteps = 1
		}
		return runMigrate(migrate.Down)
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List applied migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

type migrateResponse struct {
	Direction string `json:"direction"`
	Applied   int    `json:"applied"`
}

type migrationRecord struct {
	ID        string `json:"id"`
	AppliedAt string `json:"applied_at"`
}

func runMigrate(direction migrate.MigrationDirection) error {
	cfg, zl, err := loadConfig()
	if err != nil {
		return err
	}
	defer zl.Sync()
	if !cfg.Database.Enabled {
		return errors.New("DB_ENABLED is false")
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, cfg.Database.MigrationsDir, direction, migrateSteps)
	if err != nil {
		return err
	}

	name := "up"
	if direction == migrate.Down {
		name = "down"
	}
	if humanOutput {
		fmt.Printf("Applied %d migrations (%s)\n", n, name)
		return nil
	}
	return outputJSON(migrateResponse{Direction: name, Applied: n})
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, zl, err := loadConfig()
	if err != nil {
		return err
	}
	defer zl.Sync()
	if !cfg.Database.Enabled {
		return errors.New("DB_ENABLED is false")
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	records, err := database.MigrationStatus(db)
	if err != nil {
		return err
	}

	out := make([]migrationRecord, 0, len(records))
	for _, r := range records {
		out = append(out, migrationRecord{ID: r.Id, AppliedAt: r.AppliedAt.Format("2006-01-02 15:04:05")})
	}
	if !humanOutput {
		return outputJSON(out)
	}
	for _, r := range out {
		fmt.Printf("%s  %s\n", r.AppliedAt, r.ID)
	}
	return nil
}
