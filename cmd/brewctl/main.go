package main

import (
	"fmt"
	"os"

	"brewops/internal/config"
	"brewops/internal/model"
	"brewops/internal/router"
	"brewops/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "brewctl",
	Short:         "Maintenance commands for the brewery operations backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connect opens the configured database without starting the HTTP server.
func connect() (config.Config, *gorm.DB, error) {
	cfg := config.Load()
	db, err := database.Connect(database.Options{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		LogSQL:      cfg.DBLog,
	})
	return cfg, db, err
}

// services builds the service layer on a migrated database. Commands never
// publish websocket events or cache prices.
func services() (config.Config, *router.Services, error) {
	cfg, db, err := connect()
	if err != nil {
		return cfg, nil, err
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return cfg, nil, fmt.Errorf("migrate: %w", err)
	}
	return cfg, router.NewServices(db, nil, nil, 0), nil
}
