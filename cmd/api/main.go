package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/bookshelf/backend/internal/config"
	"github.com/zhouzirui/bookshelf/backend/internal/handler"
	"github.com/zhouzirui/bookshelf/backend/internal/logging"
	"github.com/zhouzirui/bookshelf/backend/internal/model/book"
	"github.com/zhouzirui/bookshelf/backend/internal/service/catalog"
	"github.com/zhouzirui/bookshelf/backend/internal/service/feed"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr    string
		envFile string
	)

	cmd := &cobra.Command{
		Use:           "bookshelf",
		Short:         "In-memory personal book catalogue API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, envFile, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides PORT")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	return cmd
}

func run(ctx context.Context, envFile, addrOverride string) error {
	// Load .env file
	if err := godotenv.Load(envFile); err != nil {
		logrus.WithError(err).Warn("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Error("failed to load configuration")
		return err
	}

	if addrOverride != "" {
		addr, err := config.ParseAddr(addrOverride)
		if err != nil {
			logrus.WithError(err).Error("invalid --addr")
			return err
		}
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(cfg.Log, nil)
	if err != nil {
		logrus.WithError(err).Error("failed to configure logging")
		return err
	}

	hub := feed.NewHub(logger)
	defer hub.Close()

	catalogSvc := catalog.NewService(book.NewMemoryStore(nil),
		catalog.WithPublisher(hub),
		catalog.WithLegacyList(cfg.Catalog.LegacyList),
		catalog.WithLogger(logger),
	)
	if cfg.Catalog.LegacyList {
		logger.Warn("legacy list mode enabled, list filters are computed but not applied")
	}

	router := handler.NewRouter(catalogSvc, hub, handler.Options{
		FeedBuffer: cfg.Catalog.FeedBuffer,
		Logger:     logger,
	})

	return startServer(ctx, cfg.Server, router, hub, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, hub *feed.Hub, logger *logrus.Logger) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: serverCfg.ReadHeaderTimeout,
		IdleTimeout:       serverCfg.IdleTimeout,
	}
	// Streaming subscribers never finish on their own; closing the hub ends them.
	srv.RegisterOnShutdown(hub.Close)

	logger.WithField("addr", serverCfg.Addr).Info("bookshelf backend listening")
	if err := runServer(ctx, srv, serverCfg); err != nil {
		logger.WithError(err).Error("server error")
		return err
	}
	logger.Info("server stopped")
	return nil
}

func runServer(ctx context.Context, srv *http.Server, serverCfg config.ServerConfig) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
