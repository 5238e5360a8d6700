// cmd/calc-server/main.go — HTTP (and optional NATS) server for the gocalc
// tool interface.
//
// Usage:
//
//	calc-server --port 8080 [--config gocalc.toml] [--nats-url nats://localhost:4222]
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// History endpoint:   GET  /history, DELETE /history
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/njchilds90/gocalc"
	"github.com/njchilds90/gocalc/history"
	"github.com/njchilds90/gocalc/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	v := viper.New()
	fs := pflag.NewFlagSet("calc-server", pflag.ExitOnError)
	if err := config.BindFlags(v, fs); err != nil {
		return err
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger()

	store, err := history.Open(cfg.History.Driver, cfg.History.DSN, cfg.History.Limit)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()

	var limiter *rate.Limiter
	if cfg.Server.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
	}

	tools := gocalc.NewToolHandler(cfg.Engine.Calculator(logger))
	srv := newServer(tools, store, limiter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.NATS.URL != "" {
		nc, err := startResponder(cfg.NATS.URL, cfg.NATS.Subject, srv)
		if err != nil {
			return fmt.Errorf("connect NATS: %w", err)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				logger.WithError(err).Warn("Failed to drain NATS connection")
			}
		}()
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"addr":      addr,
			"history":   cfg.History.Driver,
			"rateLimit": cfg.Server.RateLimit,
		}).Info("gocalc server listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
