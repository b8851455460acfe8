package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finviz/internal/app"
	"github.com/MrJamesThe3rd/finviz/internal/config"
	"github.com/MrJamesThe3rd/finviz/internal/database"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to the configured SQL store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			switch cfg.Store.Driver {
			case config.StoreMongo, config.StoreMemory:
				fmt.Fprintf(cmd.OutOrStdout(), "store %q has no schema to migrate\n", cfg.Store.Driver)
				return nil
			}

			driver, dsn, err := app.SQLTarget(cfg)
			if err != nil {
				return err
			}

			if err := database.Migrate(driver, dsn); err != nil {
				return fmt.Errorf("migrating %s: %w", cfg.Store.Driver, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.Store.Driver)

			return nil
		},
	}
}
