// Package cmd wires the opal CLI: a stdio MCP server for agent tooling
// plus local document inspection commands.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/agentic-research/opal/internal/config"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *log.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ~/.agentic-research/opal/opal.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "opal",
	Short: "Opal: headless vector design document engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout may carry the MCP transport; logs always go to stderr.
		logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "opal"})
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}

		if configPath == "" {
			configPath = filepath.Join(defaultDir(), "opal.toml")
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".agentic-research", "opal")
}

func catalogPath() string {
	if cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	return filepath.Join(defaultDir(), "catalog.db")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
