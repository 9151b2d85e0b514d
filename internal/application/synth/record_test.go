package synth_test

import (
	"testing"
	"time"

	"github.com/alejandrodnm/tradersim/internal/application/synth"
	"github.com/alejandrodnm/tradersim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_AccountDerivedFromPositions(t *testing.T) {
	a := archetype(t, "volatile")
	market := synth.NewMarket(domain.DefaultInstruments())
	rng := synth.NewRand(9, 0)
	ts := time.Date(2026, 1, 1, 0, 0, 0, 0, time.FixedZone("PST", -8*3600))

	for step := range 300 {
		surface := market.Surface(rng, step, 300)
		positions := synth.Positions(rng, a.Positions, surface)
		balance := 9000 + float64(step)*7.31
		snap := synth.Assemble(synth.RecordInput{
			Timestamp:  ts.Add(time.Duration(step) * time.Hour),
			Cycle:      step + 1,
			Balance:    balance,
			Positions:  positions,
			Candidates: market.Symbols(),
			Outcome:    synth.Decide(rng, a.Decisions, positions, surface),
		})

		var margin, pnl float64
		for _, p := range snap.Positions {
			margin += p.Margin
			pnl += p.UnrealizedPnL
		}
		acct := snap.AccountState
		assert.InDelta(t, max(balance-margin, 0), acct.AvailableBalance, 0.01)
		assert.InDelta(t, min(100*margin/balance, 90), acct.MarginUsedPct, 0.05+1e-9)
		assert.InDelta(t, pnl, acct.TotalUnrealizedProfit, 0.01)
		assert.Equal(t, len(snap.Positions), acct.PositionCount)
		assert.Equal(t, step+1, snap.CycleNumber)
	}
}

func TestAssemble_StampsDecisionsAndPlaceholders(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	out := synth.Outcome{
		Decisions:         []domain.Decision{{Action: domain.ActionWait, Symbol: domain.AllSymbols, Success: true}},
		Log:               []string{"AI request duration: 3000 ms", "✓ ALL wait — Risk-reward not favorable"},
		RequestDurationMs: 3000,
	}
	snap := synth.Assemble(synth.RecordInput{
		Timestamp:  ts,
		Cycle:      4,
		Balance:    10000,
		Candidates: []string{"BTCUSDT"},
		Outcome:    out,
	})

	require.Len(t, snap.Decisions, 1)
	assert.Equal(t, ts, snap.Decisions[0].Timestamp)
	assert.True(t, out.Decisions[0].Timestamp.IsZero(), "input must not be mutated")
	assert.Nil(t, snap.Positions)
	assert.Empty(t, snap.SystemPrompt)
	assert.Empty(t, snap.InputPrompt)
	assert.Empty(t, snap.CoTTrace)
	assert.Empty(t, snap.DecisionJSON)
	assert.Empty(t, snap.ErrorMessage)
	assert.True(t, snap.Success)
	assert.Equal(t, 3000, snap.RequestDurationMs)
	assert.Equal(t, out.Log, snap.ExecutionLog)
	assert.Equal(t, 10000.0, snap.AccountState.AvailableBalance)
}
