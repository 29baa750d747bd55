package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"toolstation/api"
	"toolstation/ledger"
	"toolstation/session"
	"toolstation/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	st, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	l := ledger.New(st, logger.Named("ledger"))
	manager := session.NewManager(l, cfg.Session.IdleTimeout.Duration, logger.Named("session"))
	router := api.RegisterRoutes(manager, l, staticFiles, api.Options{
		Logger:            logger.Named("http"),
		RequestsPerSecond: cfg.Limits.RequestsPerSecond,
		Burst:             cfg.Limits.Burst,
		MaxBodyBytes:      cfg.Limits.MaxBodyBytes,
	})
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("toolstation listening",
			zap.String("addr", cfg.Listen),
			zap.String("store", cfg.Storage.Backend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return manager.Run(gctx) })
	if fs, ok := st.(*store.File); ok && cfg.Storage.Watch {
		g.Go(func() error { return fs.Watch(gctx, logger.Named("store")) })
	}

	err = g.Wait()
	logger.Info("toolstation stopped")
	return err
}
