// Command protmatch-server provides a REST API for protein local alignment.
//
// Usage:
//
//	protmatch-server [options]
//
// Options:
//
//	-config   Config file (default: protmatch.yaml)
//	-port     Port to listen on, overrides the config
//	-host     Host to bind to, overrides the config
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aria-lang/protmatch-go/api/handlers"
	"github.com/aria-lang/protmatch-go/api/middleware"
	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/config"
	"github.com/aria-lang/protmatch-go/internal/logging"
	"github.com/aria-lang/protmatch-go/pkg/protmatch"
)

func main() {
	configPath := flag.String("config", "", "Config file")
	port := flag.Int("port", 0, "Port to listen on")
	host := flag.String("host", "", "Host to bind to")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *host != "" {
		cfg.Server.Host = *host
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closer.Close()

	table := alignment.BLOSUM62()
	if cfg.Matrix != "" {
		table, err = alignment.LoadPenaltyTable(cfg.Matrix)
		if err != nil {
			logger.Fatal("could not load penalty table", "path", cfg.Matrix, "err", err)
		}
	}
	logger.Info("penalty table ready", "table", table)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      newRouter(cfg, table, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shut down", "err", err)
		}
		close(done)
	}()

	logger.Info("protmatch API server starting", "addr", "http://"+server.Addr, "version", protmatch.Version())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("could not listen", "addr", server.Addr, "err", err)
	}

	<-done
	logger.Info("server stopped")
}

func newRouter(cfg config.Config, table *alignment.PenaltyTable, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	h := handlers.New(table, logger, cfg.Workers, handlers.LimitsFrom(cfg.Server))
	r.Route("/api", h.Routes)

	return r
}
