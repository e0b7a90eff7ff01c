package cli

import (
	"github.com/spf13/cobra"

	"github.com/cesargomez89/melodeck/internal/store"
)

func newMigrateCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f)
			if err != nil {
				return err
			}
			log := newLogger(cfg).WithComponent("migrate")

			db, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck // read-only after migrate

			m := store.NewMigrator(db, log)
			if err := m.Migrate(cmd.Context()); err != nil {
				return err
			}

			versions, err := m.AppliedVersions(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("Schema up to date", "db", cfg.DBPath, "applied_versions", versions)
			return nil
		},
	}
}
