package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/config"
	"taskboard/internal/db"
	"taskboard/internal/logging"
	"taskboard/internal/seed"
)

var (
	seedReset    bool
	seedPassword string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the taskboard database with a demo project",
		Long: `Seed the taskboard database with a demo scenario.

Creates two confirmed users (alice@taskboard.local, bob@taskboard.local),
a project owned by Alice with Bob as collaborator, and one task.

Examples:
  seed
  seed --reset --password hunter22`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	rootCmd.Flags().BoolVar(&seedReset, "reset", false, "drop all tables before seeding")
	rootCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for the demo users")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DSN(), logger)
	if err != nil {
		return err
	}

	if seedReset || cfg.ResetDB {
		logger.Warn("dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			return fmt.Errorf("reset database: %w", err)
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	res, err := seed.Demo(context.Background(), gormDB, seed.Options{Password: seedPassword})
	if err != nil {
		return err
	}

	logger.Info("seed completed",
		"users_created", res.UsersCreated,
		"creator", res.Creator.Email,
		"collaborator", res.Collaborator.Email,
		"project", res.Project.ID,
		"task", res.Task.ID,
	)
	return nil
}
