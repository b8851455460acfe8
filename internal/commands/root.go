package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/finviz/internal/app"
	"github.com/MrJamesThe3rd/finviz/internal/buildinfo"
	"github.com/MrJamesThe3rd/finviz/internal/config"
	"github.com/MrJamesThe3rd/finviz/internal/logging"
)

type options struct {
	envFile string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "finviz",
		Short:   "Track income and expenses from the terminal",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	rootCmd.AddCommand(
		newMigrateCommand(opts),
		newListCommand(opts),
		newAddCommand(opts),
		newDeleteCommand(opts),
		newSummaryCommand(opts),
		newImportCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}

func (o *options) loadConfig() (*config.Config, error) {
	_ = godotenv.Load(o.envFile)

	return config.Load()
}

// withApp builds the application for one command invocation and closes it
// afterwards. Log output goes to the command's stderr.
func (o *options) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(ctx, a)
	closeErr := a.Close(ctx)

	if runErr != nil {
		return runErr
	}

	return closeErr
}
