package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/tradersim/internal/adapters/notify"
	"github.com/alejandrodnm/tradersim/internal/adapters/storage"
)

func runReport(ctx context.Context, store *storage.SQLiteStorage, notifier *notify.Console) {
	if store == nil {
		slog.Error("report needs the SQLite store, run without -db off")
		os.Exit(1)
	}

	runID, err := store.LastRunID(ctx)
	if err != nil {
		slog.Error("failed to read last run", "err", err)
		os.Exit(1)
	}
	if runID != "" {
		seed, err := store.RunSeed(ctx, runID)
		if err != nil {
			slog.Error("failed to read run seed", "err", err, "run_id", runID)
			os.Exit(1)
		}
		slog.Info("=== REPORT: last run ===", "run_id", runID, "seed", seed)
	}

	stats, err := store.GetTraderStats(ctx)
	if err != nil {
		slog.Error("failed to aggregate snapshots", "err", err)
		os.Exit(1)
	}
	notifier.PrintTraderStats(stats)
}
