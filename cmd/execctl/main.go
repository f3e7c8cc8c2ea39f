package main

import (
	"fmt"
	"os"

	"execution-os/internal/config"
	"execution-os/internal/logger"
	"execution-os/internal/model"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgFile string

// openDB is replaced in tests.
var openDB = func() (*gorm.DB, error) {
	cfg := config.Load(cfgFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return db, nil
}

var rootCmd = &cobra.Command{
	Use:          "execctl",
	Short:        "Administrative tasks for the execution tracker",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: etc/config-dev.yaml)")
}

func main() { Execute() }

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := db.AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

func init() { rootCmd.AddCommand(migrateCmd) }
