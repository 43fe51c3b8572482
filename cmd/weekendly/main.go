package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/weekendly/weekendly/internal/cli"
	"github.com/weekendly/weekendly/internal/config"
	"github.com/weekendly/weekendly/internal/service"
	"github.com/weekendly/weekendly/internal/storage"
	"github.com/weekendly/weekendly/internal/weather"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()

	// Open the slot store for the configured backend.
	var (
		kv    storage.KV
		watch func(context.Context) (<-chan string, error)
	)
	switch cfg.Backend {
	case config.BackendDiskv:
		dkv, err := storage.OpenDiskv(cfg.KVDir)
		if err != nil {
			return fmt.Errorf("opening kv store: %w", err)
		}
		defer dkv.Close()
		kv = dkv
		watch = dkv.Watch
	default:
		skv, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening kv store: %w", err)
		}
		defer skv.Close()
		kv = skv
	}

	planner := service.Open(ctx, kv, service.Options{
		Logger:   logger,
		Observer: service.NewSlogUseCaseObserver(logger),
	})

	app := cli.NewApp(planner, cfg)
	app.Logger = logger
	app.Watch = watch
	app.Forecaster = weather.NewOpenMeteo(cfg.Weather.Endpoint, cfg.Weather.Timeout)

	// Open the board when nothing else was asked for on a terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}

// openLogger builds the slog logger described by cfg.Log. The returned
// func closes the log file, if one was opened.
func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
