package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mariafchaparro/tma-test/internal/app"
	"github.com/mariafchaparro/tma-test/internal/config"
	apphttp "github.com/mariafchaparro/tma-test/internal/http"
	"github.com/mariafchaparro/tma-test/internal/payment"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		log := app.Logger(cfg.App.LogLevel)
		defer log.Sync()

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()

		svc := payment.NewService(cfg, log)

		srv := apphttp.NewApp()
		apphttp.SetupRouter(srv, log, apphttp.NewHandler(svc, log))

		go func() {
			<-ctx.Done()
			log.Info("shutting down...")
			if err := srv.ShutdownWithTimeout(app.ShutdownTimeout); err != nil {
				log.Error("failed to shutdown", zap.Error(err))
			}
		}()

		addr := fmt.Sprintf(":%d", cfg.API.Port)
		log.Info("starting API server",
			zap.String("addr", addr),
			zap.String("jetton_master", cfg.Jetton.Master.String()),
		)
		if err := srv.Listen(addr); err != nil {
			return errors.Wrap(err, "server error")
		}
		return nil
	},
}
