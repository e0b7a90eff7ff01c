// Package cli holds the melodeck command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cesargomez89/melodeck/internal/config"
	"github.com/cesargomez89/melodeck/internal/logger"
)

type flags struct {
	port   string
	dbPath string
}

// NewRootCommand builds the command tree. Running it without a subcommand
// starts the server.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "melodeck",
		Short:         "melodeck is a self-hosted music catalog and playlist server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, f)
		},
	}
	root.PersistentFlags().StringVar(&f.port, "port", "", "HTTP port (overrides PORT)")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")

	root.AddCommand(newServeCommand(f), newMigrateCommand(f))
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.Load()
	if f.port != "" {
		cfg.Port = f.port
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	return logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
}
