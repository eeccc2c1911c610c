package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tasklists/internal/config"
	"tasklists/internal/repository"
	"tasklists/internal/server"
	"tasklists/internal/service"
	"tasklists/internal/storage/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("unable to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	addrFlag := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbFlag := flag.String("db", cfg.DBPath, "Path to sqlite database file")
	seedFlag := flag.Bool("seed", cfg.Seed, "Create sample lists on first run")
	levelFlag := flag.String("log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flag.Parse()

	level, err := config.ParseLevel(*levelFlag)
	if err != nil {
		slog.Error("invalid log level", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	logger.Info("task lists service starting", slog.String("db", *dbFlag))

	store, err := sqlite.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	lists := repository.NewListRepository(store, repository.WithLogger(logger))
	tasks := repository.NewTaskRepository(store, repository.WithLogger(logger))
	svc := service.New(lists, tasks, store, logger)

	if *seedFlag {
		if _, err := svc.SeedIfNeeded(context.Background()); err != nil {
			logger.Error("unable to create sample data", slog.String("error", err.Error()))
		}
	}

	cancelWatch := store.Subscribe(func(c sqlite.Change) {
		logger.Debug("store changed",
			slog.String("kind", string(c.Kind)),
			slog.String("entity", string(c.Entity)),
			slog.String("id", c.ID),
			slog.Uint64("version", c.Version))
	})
	defer cancelWatch()

	srv := server.New(svc, logger, server.Options{AllowOrigins: cfg.Origins()})

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
