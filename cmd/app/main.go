package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"iconforge/internal/config"
	"iconforge/internal/server"
	"iconforge/pkg/logger"
)

func main() {
	cfg, cfgErr := config.Load()

	level := "info"
	if cfg != nil {
		level = cfg.LogLevel
	}
	log, err := logger.NewSugared(level)
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	if cfgErr != nil {
		log.Fatal("Failed to load config: ", cfgErr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log.Desugar())
	if err != nil {
		log.Fatal("Failed to create server: ", err)
	}

	go func() {
		log.Infof("Starting server on %s", cfg.Addr())
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
