package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/finviz/internal/app"
	"github.com/MrJamesThe3rd/finviz/internal/config"
	finvizHttp "github.com/MrJamesThe3rd/finviz/internal/http"
	exportHandler "github.com/MrJamesThe3rd/finviz/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/finviz/internal/http/importcsv"
	summaryHandler "github.com/MrJamesThe3rd/finviz/internal/http/summary"
	txHandler "github.com/MrJamesThe3rd/finviz/internal/http/transaction"
	"github.com/MrJamesThe3rd/finviz/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("starting %s: %w", cfg.App.Name, err)
	}

	defer func() {
		if err := a.Close(context.Background()); err != nil {
			logger.Error("failed to close resources", "error", err)
		}
	}()

	router := finvizHttp.New(finvizHttp.Handlers{
		Transactions: txHandler.NewHandler(a.Transactions),
		Summary:      summaryHandler.NewHandler(a.Summary),
		Import:       importHandler.NewHandler(a.Import),
		Export:       exportHandler.NewHandler(a.Export),
	}, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server", "addr", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
