package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"golang.org/x/xerrors"

	"github.com/sauerbraten/linkshort"
	"github.com/sauerbraten/linkshort/internal/config"
)

func main() {
	// .env is optional; it may set LINKSHORT_CONFIG
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("LINKSHORT_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger, logCloser, err := cfg.Log.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger error:", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	var index linkshort.Index
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		i, err := linkshort.NewSQLiteIndex(nil)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not set up SQLite index")
		}
		defer i.Close()
		index = i
	default:
		index = linkshort.NewStore()
	}

	s := linkshort.NewServer(index, linkshort.NewCounter(),
		linkshort.WithLogger(logger),
		linkshort.WithBaseURL(cfg.Server.BaseURL),
	)

	r := chi.NewRouter()

	s.SetupRoutes(r)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Str("backend", cfg.Store.Backend).Msg("server running")

	err = srv.ListenAndServe()
	if err != nil && !xerrors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("server stopped")
	}
}
