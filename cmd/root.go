package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stockflow/stockflow/sd/schema"
)

var (
	// Persistent CLI flags
	logLevel    string   // Log verbosity level
	schemaFiles []string // Extra domain schema YAML files
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "stockflow",
	Short: "Deterministic stock-and-flow simulation engine",
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging applies the --log flag before a subcommand does real work.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadRegistry builds the domain registry: builtin domains plus any schemas
// supplied via --schemas.
func loadRegistry() *schema.Registry {
	registry, err := schema.LoadRegistry(schemaFiles...)
	if err != nil {
		logrus.Fatalf("Failed to load domain schemas: %v", err)
	}
	return registry
}

// init sets up persistent CLI flags
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringArrayVar(&schemaFiles, "schemas", nil, "Path to a domain schema YAML file (can be repeated)")
}
