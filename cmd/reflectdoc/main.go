package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reflectdoc/internal/config"
	"reflectdoc/internal/logger"
	"reflectdoc/internal/storage"
)

var (
	rootCmd = &cobra.Command{
		Use:           "reflectdoc",
		Short:         "Convert Go sources into a reflection graph for documentation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	jsonLog    bool
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "reflectdoc.yaml", "Path to a YAML or TOML configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the run database (SQLite), overrides the config")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Write logs as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logs")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(inspectCmd)
}

// setup loads the options and builds the logger shared by every command.
func setup() (*config.Options, *zap.SugaredLogger, error) {
	opts, err := config.LoadOptions(configPath)
	if err != nil {
		return nil, nil, err
	}
	if dbPath != "" {
		opts.Storage.DBPath = dbPath
	}
	if jsonLog {
		opts.Log.JSON = true
	}
	if verbose {
		opts.Log.Verbose = true
	}

	log, err := logger.New(opts.Log.JSON, opts.Log.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return opts, log, nil
}

func openStore() (*storage.SQLiteStore, error) {
	opts, _, err := setup()
	if err != nil {
		return nil, err
	}
	return storage.NewSQLiteStore(opts.Storage.DBPath)
}
