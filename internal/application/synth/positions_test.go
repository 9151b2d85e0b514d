package synth_test

import (
	"testing"

	"github.com/alejandrodnm/tradersim/internal/application/synth"
	"github.com/alejandrodnm/tradersim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func surfaceAt(seed uint64, step int) domain.PriceSurface {
	return synth.NewMarket(domain.DefaultInstruments()).Surface(synth.NewRand(seed, 100), step, 721)
}

func TestPositions_ZeroGateNeverHolds(t *testing.T) {
	p := archetype(t, "volatile").Positions
	p.HoldProb = 0

	rng := synth.NewRand(1, 0)
	surface := surfaceAt(1, 0)
	for range 1000 {
		assert.Empty(t, synth.Positions(rng, p, surface))
	}
}

func TestPositions_DerivedFieldsConsistent(t *testing.T) {
	for _, name := range domain.ArchetypeNames() {
		a := archetype(t, name)
		rng := synth.NewRand(17, 0)
		held := 0

		for step := 0; step < 400; step++ {
			surface := surfaceAt(17, step)
			positions := synth.Positions(rng, a.Positions, surface)
			require.LessOrEqual(t, len(positions), len(a.Positions.CountWeights), name)

			seen := make(map[string]bool)
			for _, p := range positions {
				held++
				assert.False(t, seen[p.Symbol], "%s: duplicate symbol %s", name, p.Symbol)
				seen[p.Symbol] = true

				assert.Equal(t, surface[p.Symbol].Price, p.MarkPrice)
				assert.InDelta(t, p.PnL(), p.UnrealizedPnL, 0.005+1e-9, "%s %s pnl", name, p.Symbol)
				assert.InDelta(t, p.RequiredMargin(), p.Margin, 0.005+1e-9, "%s %s margin", name, p.Symbol)
				assert.Contains(t, a.Positions.Leverage.For(surface[p.Symbol].Class), p.Leverage)
				assert.Greater(t, p.Quantity, 0.0)

				off := p.EntryPrice/p.MarkPrice - 1
				assert.GreaterOrEqual(t, off, a.Positions.EntryOffset.Min-0.001, name)
				assert.LessOrEqual(t, off, a.Positions.EntryOffset.Max+0.001, name)
			}
		}
		assert.Positive(t, held, name)
	}
}

func TestPositions_ConservativeOnlyLong(t *testing.T) {
	p := archetype(t, "conservative").Positions
	rng := synth.NewRand(8, 0)
	for step := 0; step < 300; step++ {
		for _, pos := range synth.Positions(rng, p, surfaceAt(8, step)) {
			assert.Equal(t, domain.SideLong, pos.Side)
		}
	}
}

func TestPositions_HoldRateTracksGate(t *testing.T) {
	p := archetype(t, "star").Positions
	rng := synth.NewRand(21, 0)
	surface := surfaceAt(21, 0)

	nonEmpty := 0
	const trials = 4000
	for range trials {
		if len(synth.Positions(rng, p, surface)) > 0 {
			nonEmpty++
		}
	}
	assert.InDelta(t, p.HoldProb, float64(nonEmpty)/trials, 0.04)
}

func TestPositions_SkipsUnpricedSymbols(t *testing.T) {
	p := archetype(t, "star").Positions
	p.HoldProb = 1
	surface := domain.PriceSurface{
		"ETHUSDT": {Price: 3300, Class: domain.ClassMajor, Decimals: 2},
	}

	rng := synth.NewRand(4, 0)
	for range 50 {
		for _, pos := range synth.Positions(rng, p, surface) {
			assert.Equal(t, "ETHUSDT", pos.Symbol)
		}
	}
}

func TestPositions_EmptyPool(t *testing.T) {
	p := archetype(t, "star").Positions
	p.HoldProb = 1
	assert.Empty(t, synth.Positions(synth.NewRand(1, 0), p, domain.PriceSurface{}))
}
