// Command vexplored serves the extraction API over HTTP.
//
// Configuration comes from the environment:
//
//	VEXPLORE_ADDR          listen address (default ":8000")
//	VEXPLORE_MAX_INFLIGHT  concurrent extraction bound (default 4)
//	VEXPLORE_RPS           accepted requests per second, 0 disables (default 50)
//	VEXPLORE_LOG_LEVEL     debug|info|warn|error (default "info")
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	vexplore "github.com/hupe1980/vexplore"
	"github.com/hupe1980/vexplore/httpapi"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vexplored: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	addr := envString("VEXPLORE_ADDR", ":8000")
	maxInflight, err := envInt("VEXPLORE_MAX_INFLIGHT", 4)
	if err != nil {
		return err
	}
	rps, err := envFloat("VEXPLORE_RPS", 50)
	if err != nil {
		return err
	}
	level, err := parseLevel(envString("VEXPLORE_LOG_LEVEL", "info"))
	if err != nil {
		return err
	}

	logger := vexplore.NewJSONLogger(level)

	cfg := httpapi.DefaultConfig()
	cfg.MaxInflight = int64(maxInflight)
	cfg.RequestsPerSecond = rps
	cfg.Logger = logger

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.New(cfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}
