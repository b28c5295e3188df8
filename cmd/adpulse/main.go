package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adxyz/adpulse/pkg/api"
	"github.com/adxyz/adpulse/pkg/log"
	"github.com/adxyz/adpulse/pkg/metric"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		port     = flag.String("port", "8080", "API server port")
		env      = flag.String("env", "development", "Environment (development/production)")
		logLevel = flag.String("log-level", "info", "Log level")
		version  = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("adpulse v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
		os.Exit(0)
	}

	logger := log.NewWithLevel(*logLevel)
	defer logger.Sync()

	metrics, err := metric.NewMetrics()
	if err != nil {
		logger.Fatal("failed to create metrics", log.Error(err))
	}

	// Rows are posted inline to /api/v1/analysis; wire a reporting
	// source here once the upstream fetcher lands.
	server := api.NewServer(logger, metrics, nil, *env)

	srv := &http.Server{
		Addr:    ":" + *port,
		Handler: server.Router(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", log.Error(err))
		}
	}()

	logger.Info("adpulse API server started",
		log.String("port", *port),
		log.String("env", *env),
		log.String("version", Version),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", log.Error(err))
	}

	logger.Info("server exiting")
}
