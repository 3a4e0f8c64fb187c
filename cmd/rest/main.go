package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/revlyx/revector/internal/farm/fetcher"
	"github.com/revlyx/revector/internal/rest"
	"github.com/revlyx/revector/internal/setup"
	"go.uber.org/zap"
)

// RESTLogDir specifies where REST server log files are stored.
const RESTLogDir = "logs/rest_logs"

// ShutdownTimeout bounds how long graceful shutdown may take.
const ShutdownTimeout = 30 * time.Second

func main() {
	// Initialize application with required dependencies
	app, err := setup.InitializeApp(context.Background(), setup.ServiceAPI, RESTLogDir)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup(context.Background())

	// Live assessments on cache misses go through the same fetcher as the
	// workers
	profileFetcher, err := fetcher.NewProfileFetcher(app.EthosAPI, app.Config.Common.Ethos.MaxConcurrent, app.Logger)
	if err != nil {
		app.Logger.Fatal("Failed to create profile fetcher", zap.Error(err))
	}

	// Create server
	handler, err := rest.NewServer(app.DB, profileFetcher, &app.Config.API, app.Logger)
	if err != nil {
		app.Logger.Fatal("Failed to create REST server", zap.Error(err))
	}

	// Get server address from config
	serverConfig := &app.Config.API.Server
	addr := fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(serverConfig.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(serverConfig.WriteTimeout) * time.Millisecond,
		IdleTimeout:  time.Duration(serverConfig.IdleTimeout) * time.Millisecond,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("REST server started on %s", addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	app.Logger.Info("Shutting down REST server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		app.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	app.Logger.Info("Server gracefully stopped")
}
