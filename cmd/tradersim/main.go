package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/tradersim/config"
	"github.com/alejandrodnm/tradersim/internal/adapters/notify"
	"github.com/alejandrodnm/tradersim/internal/adapters/storage"
	"github.com/alejandrodnm/tradersim/internal/application/runner"
	"github.com/alejandrodnm/tradersim/internal/ports"
)

// dsnOff disables the SQLite copy of the dataset.
const dsnOff = "off"

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file (missing file = defaults)")
	seed := flag.Uint64("seed", 0, "random seed (overrides config and TRADERSIM_SEED)")
	outDir := flag.String("out", "", "output directory for JSON records (overrides config)")
	dsn := flag.String("db", "", `SQLite path, ":memory:" or "off" (overrides config)`)
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	quiet := flag.Bool("quiet", false, "only print the run totals")
	report := flag.Bool("report", false, "print stats of the stored dataset and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.SetSeed(*seed)
		}
	})
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *dsn != "" {
		cfg.Output.DSN = *dsn
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	notifier := notify.NewConsole(*quiet)

	var store *storage.SQLiteStorage
	if cfg.Output.DSN != dsnOff {
		store, err = storage.NewSQLiteStorage(cfg.Output.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Output.DSN)
			os.Exit(1)
		}
		defer store.Close()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *report {
		runReport(ctx, store, notifier)
		return
	}

	runCfg, err := buildRunConfig(cfg)
	if err != nil {
		slog.Error("invalid config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	slog.Info("tradersim starting",
		"config", *configPath,
		"seed", runCfg.Seed,
		"traders", len(runCfg.Traders),
		"points", runCfg.Grid.Len(),
		"interval", runCfg.Grid.Step(),
		"out", cfg.Output.Dir,
		"dsn", cfg.Output.DSN,
	)

	writers := []ports.SnapshotWriter{storage.NewJSONDir(cfg.Output.Dir, cfg.Output.WritesPerSec)}
	if store != nil {
		writers = append(writers, store)
	}

	r, err := runner.New(runCfg, notifier, writers...)
	if err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	run, err := r.Run(ctx)
	if err != nil {
		slog.Error("generation failed", "err", err, "records", run.Records())
		if store != nil {
			store.Close()
		}
		os.Exit(1)
	}

	slog.Info("tradersim done", "run_id", run.RunID, "records", run.Records())
}

// buildRunConfig converts the file config into the runner's input.
func buildRunConfig(cfg *config.Config) (runner.Config, error) {
	grid, err := cfg.Grid()
	if err != nil {
		return runner.Config{}, err
	}
	traders, err := cfg.DomainTraders()
	if err != nil {
		return runner.Config{}, err
	}
	instruments, err := cfg.DomainInstruments()
	if err != nil {
		return runner.Config{}, err
	}
	return runner.Config{
		Seed:           cfg.Seed(),
		InitialBalance: cfg.Simulation.InitialBalance,
		Grid:           grid,
		Instruments:    instruments,
		Candidates:     cfg.Simulation.Candidates,
		Traders:        traders,
		Workers:        cfg.Simulation.Workers,
	}, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
