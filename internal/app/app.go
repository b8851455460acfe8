// Package app assembles the services shared by the API server, the terminal
// dashboard and the CLI from a loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/finviz/internal/config"
	"github.com/MrJamesThe3rd/finviz/internal/database"
	"github.com/MrJamesThe3rd/finviz/internal/events"
	"github.com/MrJamesThe3rd/finviz/internal/export"
	"github.com/MrJamesThe3rd/finviz/internal/importer"
	"github.com/MrJamesThe3rd/finviz/internal/money"
	"github.com/MrJamesThe3rd/finviz/internal/summary"
	"github.com/MrJamesThe3rd/finviz/internal/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/memstore"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/mongostore"
	"github.com/MrJamesThe3rd/finviz/internal/transaction/store"
)

type App struct {
	Config       *config.Config
	Money        *money.Formatter
	Transactions *transaction.Service
	Summary      *summary.Service
	Import       *importer.Service
	Export       *export.Service

	// Events is set when AMQP_URL is configured.
	Events *events.AMQP

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	formatter, err := money.NewFormatter(cfg.App.Currency)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Money: formatter}

	repo, err := a.openRepository(ctx)
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	var notifier transaction.Notifier = events.NewLog(logger)

	if cfg.AMQP.URL != "" {
		amqp, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}

		a.Events = amqp
		a.closers = append(a.closers, func(context.Context) error { return amqp.Close() })
		notifier = amqp
	}

	a.Transactions = transaction.NewService(repo, notifier)
	a.Summary = summary.NewService(a.Transactions)
	a.Import = importer.NewService(a.Transactions)
	a.Export = export.NewService(a.Transactions, formatter)

	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}

	a.closers = nil

	return errors.Join(errs...)
}

func (a *App) openRepository(ctx context.Context) (transaction.Repository, error) {
	cfg := a.Config

	switch cfg.Store.Driver {
	case config.StoreMemory:
		return memstore.New(), nil
	case config.StoreMongo:
		client, err := mongostore.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, client.Disconnect)

		return mongostore.New(client.Database(cfg.Mongo.Database)), nil
	}

	driver, dsn, err := SQLTarget(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Store.AutoMigrate {
		if err := database.Migrate(driver, dsn); err != nil {
			return nil, fmt.Errorf("migrating: %w", err)
		}
	}

	db, err := database.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, func(context.Context) error { return db.Close() })

	return store.New(db), nil
}

// SQLTarget maps the configured SQL store to a database/sql driver and DSN.
func SQLTarget(cfg *config.Config) (driver, dsn string, err error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		return database.DriverPostgres, cfg.ConnectionString(), nil
	case config.StoreSQLite:
		return database.DriverSQLite, cfg.SQLite.Path, nil
	}

	return "", "", fmt.Errorf("store %q has no sql schema", cfg.Store.Driver)
}
