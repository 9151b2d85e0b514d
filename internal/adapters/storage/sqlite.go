package storage

// sqlite.go: queryable copy of every generated snapshot.
//
// Layout:
//   - `snapshots`: one row per (trader, cycle) with the account block broken
//     out into columns and the full record kept as JSON in `payload`.
//   - `runs` / `run_traders`: one row per run plus per-trader tallies.
//   - Writes are buffered and flushed in a single transaction every
//     batchSize rows; Reset, RecordRun and Close flush first.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/tradersim/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    trader_id         TEXT     NOT NULL,
    cycle             INTEGER  NOT NULL,
    ts                DATETIME NOT NULL,
    total_balance     REAL     NOT NULL,
    available_balance REAL     NOT NULL,
    unrealized        REAL     NOT NULL DEFAULT 0,
    position_count    INTEGER  NOT NULL DEFAULT 0,
    margin_used_pct   REAL     NOT NULL DEFAULT 0,
    action            TEXT     NOT NULL,
    symbol            TEXT     NOT NULL,
    payload           TEXT     NOT NULL,
    PRIMARY KEY (trader_id, cycle)
);

CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    seed       TEXT     NOT NULL, -- decimal uint64
    points     INTEGER  NOT NULL,
    records    INTEGER  NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS run_traders (
    run_id        TEXT    NOT NULL,
    trader_id     TEXT    NOT NULL,
    label         TEXT,
    records       INTEGER NOT NULL,
    final_balance REAL    NOT NULL,
    max_drawdown  REAL    NOT NULL,
    opens         INTEGER NOT NULL DEFAULT 0,
    closes        INTEGER NOT NULL DEFAULT 0,
    idles         INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, trader_id)
);

CREATE INDEX IF NOT EXISTS idx_snap_ts     ON snapshots(ts);
CREATE INDEX IF NOT EXISTS idx_snap_action ON snapshots(action);
`

const batchSize = 500

type pendingRow struct {
	traderID string
	snap     domain.Snapshot
	payload  []byte
}

// SQLiteStorage implements ports.SnapshotWriter and ports.RunRecorder on
// SQLite (pure Go, no CGo).
type SQLiteStorage struct {
	db      *sql.DB
	pending []pendingRow
}

// NewSQLiteStorage opens (or creates) the database at path and applies the schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// Reset deletes the trader's snapshots from earlier runs.
func (s *SQLiteStorage) Reset(ctx context.Context, trader domain.Trader) (int, error) {
	if err := s.Flush(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE trader_id = ?`, trader.ID)
	if err != nil {
		return 0, fmt.Errorf("storage.Reset: delete %s: %w", trader.ID, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Write buffers one snapshot, flushing when the batch is full.
func (s *SQLiteStorage) Write(ctx context.Context, trader domain.Trader, snap domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage.Write: marshal %s cycle %d: %w", trader.ID, snap.CycleNumber, err)
	}
	s.pending = append(s.pending, pendingRow{traderID: trader.ID, snap: snap, payload: payload})
	if len(s.pending) >= batchSize {
		return s.Flush(ctx)
	}
	return nil
}

// Flush writes every buffered snapshot in one transaction.
func (s *SQLiteStorage) Flush(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.Flush: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO snapshots
			(trader_id, cycle, ts, total_balance, available_balance, unrealized,
			 position_count, margin_used_pct, action, symbol, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.Flush: prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range s.pending {
		acct := row.snap.AccountState
		action, symbol := primaryDecision(row.snap)
		if _, err := stmt.ExecContext(ctx,
			row.traderID,
			row.snap.CycleNumber,
			row.snap.Timestamp.UTC(),
			acct.TotalBalance,
			acct.AvailableBalance,
			acct.TotalUnrealizedProfit,
			acct.PositionCount,
			acct.MarginUsedPct,
			string(action),
			symbol,
			string(row.payload),
		); err != nil {
			return fmt.Errorf("storage.Flush: insert %s cycle %d: %w", row.traderID, row.snap.CycleNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.Flush: commit: %w", err)
	}
	s.pending = s.pending[:0]
	return nil
}

// RecordRun stores the run and its per-trader tallies.
func (s *SQLiteStorage) RecordRun(ctx context.Context, run domain.RunSummary) error {
	if err := s.Flush(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.RecordRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, seed, points, records, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.RunID, strconv.FormatUint(run.Seed, 10), run.Points, run.Records(), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.RecordRun: insert run: %w", err)
	}

	for _, t := range run.Traders {
		opens := t.Actions[domain.ActionOpenLong] + t.Actions[domain.ActionOpenShort]
		closes := t.Actions[domain.ActionCloseLong] + t.Actions[domain.ActionCloseShort]
		idles := t.Actions[domain.ActionWait] + t.Actions[domain.ActionHold]
		if _, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO run_traders
				(run_id, trader_id, label, records, final_balance, max_drawdown, opens, closes, idles)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, t.TraderID, t.Label, t.Records, t.FinalBalance, t.MaxDrawdown, opens, closes, idles,
		); err != nil {
			return fmt.Errorf("storage.RecordRun: insert trader %s: %w", t.TraderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.RecordRun: commit: %w", err)
	}
	return nil
}

// GetSnapshots returns a trader's stored snapshots ordered by cycle.
func (s *SQLiteStorage) GetSnapshots(ctx context.Context, traderID string) ([]domain.Snapshot, error) {
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM snapshots WHERE trader_id = ? ORDER BY cycle`, traderID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetSnapshots: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Snapshot
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("storage.GetSnapshots: scan row: %w", err)
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			return nil, fmt.Errorf("storage.GetSnapshots: decode payload: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// GetTraderStats aggregates the stored snapshots per trader.
func (s *SQLiteStorage) GetTraderStats(ctx context.Context) ([]domain.TraderStats, error) {
	if err := s.Flush(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT trader_id,
		       COUNT(*),
		       MIN(total_balance),
		       MAX(total_balance),
		       AVG(margin_used_pct),
		       AVG(position_count),
		       SUM(CASE WHEN action IN ('open_long', 'open_short') THEN 1 ELSE 0 END),
		       SUM(CASE WHEN action IN ('close_long', 'close_short') THEN 1 ELSE 0 END)
		FROM snapshots
		GROUP BY trader_id
		ORDER BY trader_id
	`)
	if err != nil {
		return nil, fmt.Errorf("storage.GetTraderStats: query: %w", err)
	}
	defer rows.Close()

	var out []domain.TraderStats
	for rows.Next() {
		var st domain.TraderStats
		if err := rows.Scan(
			&st.TraderID,
			&st.Records,
			&st.MinBalance,
			&st.MaxBalance,
			&st.AvgMarginPct,
			&st.AvgPositions,
			&st.Opens,
			&st.Closes,
		); err != nil {
			return nil, fmt.Errorf("storage.GetTraderStats: scan row: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// LastRunID returns the most recently recorded run, or "" if there is none.
func (s *SQLiteStorage) LastRunID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY created_at DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage.LastRunID: %w", err)
	}
	return id, nil
}

// RunSeed returns the seed a recorded run was generated with.
func (s *SQLiteStorage) RunSeed(ctx context.Context, runID string) (uint64, error) {
	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT seed FROM runs WHERE id = ?`, runID).Scan(&raw); err != nil {
		return 0, fmt.Errorf("storage.RunSeed: %s: %w", runID, err)
	}
	seed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("storage.RunSeed: %s: parse %q: %w", runID, raw, err)
	}
	return seed, nil
}

// Close flushes pending rows and closes the database.
func (s *SQLiteStorage) Close() error {
	flushErr := s.Flush(context.Background())
	if err := s.db.Close(); err != nil {
		return err
	}
	return flushErr
}

// primaryDecision returns the action and symbol of the cycle's first decision.
func primaryDecision(snap domain.Snapshot) (domain.Action, string) {
	if len(snap.Decisions) == 0 {
		return domain.ActionWait, domain.AllSymbols
	}
	return snap.Decisions[0].Action, snap.Decisions[0].Symbol
}
