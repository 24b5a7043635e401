package command

// root.go defines the root command of the reviewhub admin CLI. Commands talk
// straight to the database with the same repositories the API uses.

import (
	"fmt"
	"log/slog"
	"os"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewhub-cli",
	Short: "reviewhub-cli - ReviewHub administration",
	Long: `reviewhub-cli manages a ReviewHub database directly. It reads the same
environment as the API server (DATABASE_URL, JWT_SECRET, ...) and can:
- apply the schema
- create users, including staff accounts
- change user roles

Use "reviewhub-cli command --help" to see the flags of each command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log database activity")
}

// openStore loads config from the environment and connects to the database.
func openStore() (*gorm.DB, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.New(level, "text")
	slog.SetDefault(logger)

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, closeFn, nil
}
