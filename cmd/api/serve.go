package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/bootstrap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		application, err := bootstrap.New(ctx, cfg, logger)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.String("driver", cfg.Storage.Driver))
			errCh <- application.Server.Listen(cfg.App.Addr())
		}()

		select {
		case err = <-errCh:
			logger.Error("fiber listen", zap.Error(err))
		case <-ctx.Done():
			logger.Info("shutting down")
		}
		if closeErr := application.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		return err
	},
}
