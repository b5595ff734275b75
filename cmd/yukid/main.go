package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"yukid/internal/api"
	"yukid/internal/config"
	"yukid/internal/db"
	"yukid/internal/service"
	"yukid/internal/version"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	// ----- logger -----------------
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}

	var formatter log.Formatter
	if cfg.LogFormat == "json" {
		formatter = log.JSONFormatter
	} else {
		formatter = log.TextFormatter
	}

	logger := log.NewWithOptions(os.Stdout, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       formatter,
	})

	logger.Info("starting yukid", "version", version.FullVersion())

	// ----- data dir + migrations --
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatal("failed to create data dir", "dir", cfg.DataDir, "err", err)
	}

	logger.Info("running database migrations")
	if err := db.RunMigrations(cfg.DatabasePath()); err != nil {
		logger.Fatal("failed to run database migrations", "err", err)
	}

	// ----- database ---------------
	store, err := db.New(cfg.DatabasePath())
	if err != nil {
		logger.Fatal("database connection failed", "err", err)
	}
	defer store.Close()
	logger.Info("database ready", "path", cfg.DatabasePath())

	// ----- services ---------------
	services := service.New(store, logger)

	// ----- api layer --------------
	srv := api.NewServer(services, logger.WithPrefix("api"))

	serverErrors := make(chan error, 1)
	go func() {
		server := &http.Server{
			Addr:    cfg.Addr,
			Handler: srv.Handler(),
		}

		logger.Info("server is listening", "addr", cfg.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("server error", "err", err)

	case <-quit:
		logger.Info("shutdown signal received")
	}

	logger.Info("server shutdown complete")
}
