// Package runner drives a generation run: it synthesizes every trader's
// equity curve, then walks the time grid producing one snapshot per step and
// hands each to the configured writers.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/tradersim/internal/application/synth"
	"github.com/alejandrodnm/tradersim/internal/domain"
	"github.com/alejandrodnm/tradersim/internal/ports"
	"github.com/google/uuid"
)

// runIDStream is reserved for the run identifier; trader streams start at 1.
const runIDStream = 0

// Config is the static input of a run.
type Config struct {
	Seed           uint64
	InitialBalance float64
	Grid           domain.TimeGrid
	Instruments    []domain.Instrument
	Candidates     []string // defaults to every instrument symbol
	Traders        []domain.Trader
	Workers        int // curve synthesis workers, <= 0 means NumCPU
}

// Runner generates and persists the snapshots of every configured trader.
type Runner struct {
	cfg      Config
	market   *synth.Market
	reporter ports.Reporter
	writers  []ports.SnapshotWriter
}

// New validates cfg and builds a Runner.
func New(cfg Config, reporter ports.Reporter, writers ...ports.SnapshotWriter) (*Runner, error) {
	if reporter == nil {
		return nil, fmt.Errorf("runner.New: nil reporter")
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("runner.New: %w", err)
	}
	if len(cfg.Candidates) == 0 {
		cfg.Candidates = domain.Symbols(cfg.Instruments)
	}
	return &Runner{
		cfg:      cfg,
		market:   synth.NewMarket(cfg.Instruments),
		reporter: reporter,
		writers:  writers,
	}, nil
}

func validate(cfg Config) error {
	if cfg.InitialBalance <= 0 {
		return fmt.Errorf("initial balance must be positive, got %v", cfg.InitialBalance)
	}
	if cfg.Grid.Len() == 0 {
		return fmt.Errorf("empty time grid")
	}
	if len(cfg.Traders) == 0 {
		return fmt.Errorf("no traders configured")
	}
	if len(cfg.Instruments) == 0 {
		return fmt.Errorf("no instruments configured")
	}

	priced := make(map[string]bool, len(cfg.Instruments))
	for _, inst := range cfg.Instruments {
		if err := inst.Validate(); err != nil {
			return err
		}
		if priced[inst.Symbol] {
			return fmt.Errorf("duplicate instrument %s", inst.Symbol)
		}
		priced[inst.Symbol] = true
	}

	ids := make(map[string]bool, len(cfg.Traders))
	dirs := make(map[string]bool, len(cfg.Traders))
	for _, t := range cfg.Traders {
		if t.ID == "" {
			return fmt.Errorf("trader with empty id")
		}
		if ids[t.ID] {
			return fmt.Errorf("duplicate trader id %s", t.ID)
		}
		if dirs[t.Dir] {
			return fmt.Errorf("trader %s: output dir %q already used", t.ID, t.Dir)
		}
		ids[t.ID], dirs[t.Dir] = true, true

		for _, sym := range t.Archetype.Symbols() {
			if !priced[sym] {
				slog.Warn("archetype trades an unpriced instrument, it will be skipped",
					"trader", t.ID, "archetype", t.Archetype.Name, "symbol", sym)
			}
		}
	}
	return nil
}

// Run generates every trader's series. A writer error aborts the run and is
// returned together with what was completed so far.
func (r *Runner) Run(ctx context.Context) (domain.RunSummary, error) {
	runID, err := uuid.NewRandomFromReader(synth.NewRand(r.cfg.Seed, runIDStream))
	if err != nil {
		return domain.RunSummary{}, fmt.Errorf("runner.Run: run id: %w", err)
	}

	points := r.cfg.Grid.Len()
	run := domain.RunSummary{RunID: runID.String(), Seed: r.cfg.Seed, Points: points}

	rngs := make([]*synth.Rand, len(r.cfg.Traders))
	for i := range r.cfg.Traders {
		rngs[i] = synth.NewRand(r.cfg.Seed, uint64(i)+1)
	}
	curves := synthesizeCurves(r.cfg.Traders, rngs, points, r.cfg.InitialBalance, r.cfg.Workers)

	summaries := make([]domain.CurveSummary, len(r.cfg.Traders))
	for i, tr := range r.cfg.Traders {
		summaries[i] = domain.SummarizeCurve(tr, curves[i], tr.Archetype.FinalTarget(r.cfg.InitialBalance))

		slog.Info("equity curve synthesized",
			"trader", tr.ID,
			"archetype", tr.Archetype.Name,
			"start", summaries[i].Start,
			"end", summaries[i].End,
			"return_pct", fmt.Sprintf("%+.1f", summaries[i].ReturnPct()),
		)
	}

	if err := r.reporter.ReportCurves(ctx, summaries); err != nil {
		slog.Warn("reporter error", "err", err)
	}

	for i, tr := range r.cfg.Traders {
		res, err := r.generateTrader(ctx, tr, rngs[i], curves[i])
		run.Traders = append(run.Traders, res)
		if err != nil {
			return run, err
		}
	}

	for _, w := range r.writers {
		if rec, ok := w.(ports.RunRecorder); ok {
			if err := rec.RecordRun(ctx, run); err != nil {
				return run, fmt.Errorf("runner.Run: record run: %w", err)
			}
		}
	}

	if err := r.reporter.ReportRun(ctx, run); err != nil {
		slog.Warn("reporter error", "err", err)
	}
	return run, nil
}

// generateTrader walks the grid for one trader.
func (r *Runner) generateTrader(ctx context.Context, tr domain.Trader, rng *synth.Rand, curve []float64) (domain.TraderResult, error) {
	res := domain.TraderResult{
		TraderID:    tr.ID,
		Label:       tr.Label,
		Dir:         tr.Dir,
		Actions:     make(map[domain.Action]int),
		MaxDrawdown: domain.MaxDrawdownPct(curve),
	}
	if len(curve) > 0 {
		res.FinalBalance = curve[len(curve)-1]
	}

	for _, w := range r.writers {
		n, err := w.Reset(ctx, tr)
		if err != nil {
			return res, fmt.Errorf("runner.Run: reset %s: %w", tr.ID, err)
		}
		res.Cleared = max(res.Cleared, n)
	}
	if res.Cleared > 0 {
		slog.Info("cleared previous records", "trader", tr.ID, "dir", tr.Dir, "count", res.Cleared)
	}

	points := len(curve)
	for step := range points {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("runner.Run: %s interrupted at cycle %d: %w", tr.ID, step+1, err)
		}

		snap := r.snapshot(rng, tr, step, points, curve[step])
		for _, w := range r.writers {
			if err := w.Write(ctx, tr, snap); err != nil {
				return res, fmt.Errorf("runner.Run: write %s cycle %d: %w", tr.ID, snap.CycleNumber, err)
			}
		}

		res.Records++
		for _, d := range snap.Decisions {
			res.Actions[d.Action]++
		}
		slog.Debug("snapshot written",
			"trader", tr.ID,
			"cycle", snap.CycleNumber,
			"balance", snap.AccountState.TotalBalance,
			"positions", snap.AccountState.PositionCount,
		)
	}

	slog.Info("trader complete", "trader", tr.ID, "records", res.Records)
	return res, nil
}

// snapshot produces one step: surface, positions, decisions, record.
func (r *Runner) snapshot(rng *synth.Rand, tr domain.Trader, step, points int, balance float64) domain.Snapshot {
	surface := r.market.Surface(rng, step, points)
	positions := synth.Positions(rng, tr.Archetype.Positions, surface)
	outcome := synth.Decide(rng, tr.Archetype.Decisions, positions, surface)

	return synth.Assemble(synth.RecordInput{
		Timestamp:  r.cfg.Grid.At(step),
		Cycle:      step + 1,
		Balance:    balance,
		Positions:  positions,
		Candidates: r.cfg.Candidates,
		Outcome:    outcome,
	})
}
