package main

import (
	"fmt"
	"os"

	"proxyprofile/internal/config"
	"proxyprofile/internal/db"
	"proxyprofile/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfgFile string
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:   "proxyprofile",
	Short: "Manage stored proxy profiles",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openStore loads the config and opens the migrated profile store.
// Callers close the returned handle with db.Close.
func openStore() (*config.Config, *gorm.DB, *db.Store) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Log.Fatalf("Error loading config: %v", err)
	}

	database, err := db.Connect(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatalf("Error connecting to DB: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		db.Close(database)
		logger.Log.Fatalf("Error migrating DB: %v", err)
	}

	return cfg, database, db.NewStore(database, cfg.Settings.DefaultOrder)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (overwrites file)")
}
