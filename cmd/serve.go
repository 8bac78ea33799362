package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/spf13/cobra"

	"up2you.app/storefront/internal/bootstrap"
	"up2you.app/storefront/internal/router"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger := opts.cfg, opts.logger

	services, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	hash, err := router.HashAdminToken(cfg.AdminToken)
	if err != nil {
		_ = services.Close(ctx)
		return err
	}
	if hash == nil {
		logger.Warn("ADMIN_API_TOKEN not set, item writes are open")
	}

	r := router.New(router.Deps{
		Inventory:         services.Inventory,
		Carts:             services.Carts,
		Reports:           services.Reports,
		Logger:            logger,
		AdminTokenHash:    hash,
		UploadDir:         cfg.UploadDir,
		AllowedOrigins:    cfg.AllowedOrigin,
		LowStockThreshold: cfg.LowStockThreshold,
		Release:           cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server is running", "port", cfg.Port, "storage", services.Inventory.BackendName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to run server", "error", err)
			os.Exit(1)
		}
	}()

	// Storage is closed only after the server has drained.
	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			logger.Info("graceful shutdown initiated")
			return errors.Join(srv.Shutdown(ctx), services.Close(ctx))
		},
	})

	exitCode := <-wait
	logger.Info("server exited", "code", exitCode)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}
