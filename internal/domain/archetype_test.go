package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupArchetype_Known(t *testing.T) {
	for _, name := range []string{"star", "conservative", "volatile", "underperformer"} {
		a, err := LookupArchetype(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, a.Name)
		assert.NotEmpty(t, a.Shape)
		assert.Greater(t, a.Noise, 0.0)
	}
}

func TestLookupArchetype_Unknown(t *testing.T) {
	_, err := LookupArchetype("moonshot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moonshot")
}

func TestArchetypeNames_Sorted(t *testing.T) {
	assert.Equal(t, []string{"conservative", "star", "underperformer", "volatile"}, ArchetypeNames())
}

func TestFinalTarget(t *testing.T) {
	star, _ := LookupArchetype("star")
	cons, _ := LookupArchetype("conservative")
	under, _ := LookupArchetype("underperformer")

	assert.InDelta(t, 11800, star.FinalTarget(10000), 1)
	assert.InDelta(t, 10800, cons.FinalTarget(10000), 1)
	assert.InDelta(t, 9500, under.FinalTarget(10000), 1e-9)
}

func TestArchetype_StartsAtInitial(t *testing.T) {
	for _, name := range ArchetypeNames() {
		a, _ := LookupArchetype(name)
		assert.InDelta(t, 10000, a.Target(10000, 0), 1e-9, name)
	}
}

func TestArchetype_SymbolsDeduplicated(t *testing.T) {
	star, _ := LookupArchetype("star")
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}, star.Symbols())
}

func TestArchetype_PoolsUseDefaultInstruments(t *testing.T) {
	known := make(map[string]bool)
	for _, s := range Symbols(DefaultInstruments()) {
		known[s] = true
	}
	for _, name := range ArchetypeNames() {
		a, _ := LookupArchetype(name)
		for _, sym := range a.Symbols() {
			assert.True(t, known[sym], "%s references %s", name, sym)
		}
	}
}

func TestShapeTerms(t *testing.T) {
	assert.InDelta(t, 0.5, Linear{Slope: 1}.At(0.5), 1e-12)
	assert.InDelta(t, -0.02, Gaussian{Amp: -0.02, Center: 0.3, Width: 0.02}.At(0.3), 1e-12)
	assert.InDelta(t, 0, Gaussian{Amp: 1, Center: 0.3}.At(0.3), 1e-12)
	assert.InDelta(t, 0.1, Sine{Amp: 0.1, Cycles: 1}.At(0.25), 1e-12)
	assert.InDelta(t, -0.12, HalfSine{Amp: -0.12, Start: 0.4, End: 0.8}.At(0.6), 1e-12)
	assert.Equal(t, 0.0, HalfSine{Amp: -0.12, Start: 0.4, End: 0.8}.At(0.9))
	assert.InDelta(t, 0.06, RiseDecay{Amp: 0.06, Peak: 0.4, Decay: 3}.At(0.4), 1e-12)
	assert.InDelta(t, 0.06*math.Exp(-1.8), RiseDecay{Amp: 0.06, Peak: 0.4, Decay: 3}.At(1), 1e-12)
	assert.Equal(t, 0.0, Ramp{Amp: 0.03, Start: 0.75}.At(0.5))
	assert.InDelta(t, 0.03, Ramp{Amp: 0.03, Start: 0.75}.At(1), 1e-12)
}

func TestInstrument_DriftAndValidate(t *testing.T) {
	inst := Instrument{Symbol: "X", Base: 10, Class: ClassAlt, Trend: 0.1,
		Waves: []Wave{{Amp: 0.2, Cycles: 1}}}
	assert.InDelta(t, 0.1, inst.Drift(1), 1e-9)
	assert.InDelta(t, 0.2+0.025, inst.Drift(0.25), 1e-9)
	assert.NoError(t, inst.Validate())

	assert.Error(t, Instrument{Symbol: "X", Base: 0, Class: ClassAlt}.Validate())
	assert.Error(t, Instrument{Symbol: "X", Base: 1, Class: "meme"}.Validate())
	assert.Error(t, Instrument{Base: 1, Class: ClassAlt}.Validate())
}

func TestTimeGrid_HourlyThirtyDays(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := NewTimeGrid(start, start.Add(30*24*time.Hour), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 721, g.Len())
	assert.Equal(t, start.Add(5*time.Hour), g.At(5))
	assert.Len(t, g.Points(), 721)
}

func TestTimeGrid_Invalid(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewTimeGrid(start, start.Add(time.Hour), 0)
	assert.Error(t, err)
	_, err = NewTimeGrid(start, start.Add(-time.Hour), time.Hour)
	assert.Error(t, err)
}

func TestTimeGrid_SinglePoint(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := NewTimeGrid(start, start, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Len())
}

func TestSummarizeCurve(t *testing.T) {
	tr := Trader{ID: "t1", Label: "T1", Archetype: Archetype{Name: "star"}}
	s := SummarizeCurve(tr, []float64{100, 90, 120, 110}, 110)
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 90.0, s.Min)
	assert.Equal(t, 120.0, s.Max)
	assert.InDelta(t, 10.0, s.ReturnPct(), 1e-9)
	assert.InDelta(t, 10.0, MaxDrawdownPct([]float64{100, 90, 120, 110}), 1e-9)
}

func TestRiseDecay_ContinuousAtPeak(t *testing.T) {
	r := RiseDecay{Amp: 0.06, Peak: 0.4, Decay: 3}
	assert.InDelta(t, r.At(0.4), r.At(0.4-1e-9), 1e-6)
	assert.Greater(t, r.At(0.3), r.At(0.2), "rise is monotonic up to the peak")
	assert.InDelta(t, 0, r.At(0), 1e-12)
}
