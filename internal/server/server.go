package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shashiranjanraj/estoque/app/routes"
	"github.com/shashiranjanraj/estoque/config"
	"github.com/shashiranjanraj/estoque/internal/kernel"
	"github.com/shashiranjanraj/estoque/pkg/grpc"
	"github.com/shashiranjanraj/estoque/pkg/logger"
	"github.com/shashiranjanraj/estoque/pkg/ws"
)

const shutdownTimeout = 10 * time.Second

// Start boots the app and serves HTTP and gRPC until ctx is cancelled, then
// drains both.
func Start(ctx context.Context) error {
	app, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	hub := ws.NewHub()
	go hub.Run(ctx)

	k, err := kernel.NewHTTPKernel(routes.Deps{Inventory: app.Inventory, Hub: hub, Events: app.Events})
	if err != nil {
		return err
	}

	grpcSrv, _, err := grpc.Start(config.GRPCPort(), app.Inventory.Ready)
	if err != nil {
		return err
	}
	defer grpc.Stop(grpcSrv)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("estoque listening", "addr", srv.Addr, "env", config.AppEnv())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("estoque shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
