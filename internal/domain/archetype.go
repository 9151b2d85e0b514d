package domain

import (
	"fmt"
	"sort"
)

// Range is a closed float interval.
type Range struct {
	Min float64
	Max float64
}

// IntRange is a closed integer interval.
type IntRange struct {
	Min int
	Max int
}

// WeightedSymbol is one entry of a sampling pool.
type WeightedSymbol struct {
	Symbol string
	Weight float64
}

// Leverage lists the allowed leverage values for majors and alts.
type Leverage struct {
	Majors []int
	Alts   []int
}

// For returns the leverage set that applies to class.
func (l Leverage) For(c Class) []int {
	if c.IsMajor() {
		return l.Majors
	}
	return l.Alts
}

// Notional is the position size range in quote currency per class.
type Notional map[Class]Range

// Correction forces the curve onto a final return by ramping an offset over
// the trailing Fraction of points.
type Correction struct {
	FinalReturn float64
	Fraction    float64
}

// PositionProfile governs which positions a trader holds at a step.
type PositionProfile struct {
	HoldProb     float64
	CountWeights []float64 // CountWeights[i] is the weight of holding i+1 positions
	Pool         []WeightedSymbol
	EntryOffset  Range // entry = mark × (1 + offset)
	LongProb     float64
	Leverage     Leverage
	Notional     Notional
}

// DecisionProfile governs how often and how a trader acts.
type DecisionProfile struct {
	ActionProb float64
	CloseProb  float64
	Pool       []WeightedSymbol
	LongProb   float64
	Leverage   Leverage
	Notional   Notional
	LatencyMs  IntRange
}

// Archetype is a named performance and behavior profile. Every parameter is
// data so new archetypes never touch the generators.
type Archetype struct {
	Name       string
	Shape      Shape
	Noise      float64 // σ of the per-point noise, fraction of the initial balance
	Correction *Correction
	Positions  PositionProfile
	Decisions  DecisionProfile
}

// FinalTarget is the balance the curve is expected to end near.
func (a Archetype) FinalTarget(initial float64) float64 {
	if a.Correction != nil {
		return initial * (1 + a.Correction.FinalReturn)
	}
	return a.Target(initial, 1)
}

// Target is the noiseless balance at time fraction t. The shape is anchored
// so every archetype starts exactly at the initial balance.
func (a Archetype) Target(initial, t float64) float64 {
	return initial * (1 + a.Shape.At(t) - a.Shape.At(0))
}

var openNotional = Notional{
	ClassFlagship: {Min: 50000, Max: 80000},
	ClassMajor:    {Min: 30000, Max: 50000},
	ClassAlt:      {Min: 8000, Max: 15000},
}

var archetypes = map[string]Archetype{
	"star": {
		Name: "star",
		Shape: Shape{
			Linear{Slope: 0.18},
			Gaussian{Amp: -0.02, Center: 0.30, Width: 0.02},
			Gaussian{Amp: -0.015, Center: 0.67, Width: 0.015},
			HalfSine{Amp: 0.02, Start: 0, End: 1},
		},
		Noise: 0.002,
		Positions: PositionProfile{
			HoldProb:     0.55,
			CountWeights: []float64{0.6, 0.4},
			Pool:         []WeightedSymbol{{"BTCUSDT", 1}, {"ETHUSDT", 1}},
			EntryOffset:  Range{Min: -0.02, Max: 0.015},
			LongProb:     0.75,
			Leverage:     Leverage{Majors: []int{3, 5}, Alts: []int{3, 5}},
			Notional: Notional{
				ClassFlagship: {Min: 50000, Max: 80000},
				ClassMajor:    {Min: 30000, Max: 50000},
				ClassAlt:      {Min: 8000, Max: 15000},
			},
		},
		Decisions: DecisionProfile{
			ActionProb: 0.22,
			CloseProb:  0.4,
			Pool:       []WeightedSymbol{{"BTCUSDT", 0.5}, {"ETHUSDT", 0.35}, {"SOLUSDT", 0.15}},
			LongProb:   0.72,
			Leverage:   Leverage{Majors: []int{3, 5}, Alts: []int{3, 5}},
			Notional:   openNotional,
			LatencyMs:  IntRange{Min: 2000, Max: 8000},
		},
	},
	"conservative": {
		Name: "conservative",
		Shape: Shape{
			Linear{Slope: 0.08},
			Sine{Amp: 0.005, Cycles: 3},
			Gaussian{Amp: -0.008, Center: 0.5, Width: 0.05},
		},
		Noise: 0.001,
		Positions: PositionProfile{
			HoldProb:     0.35,
			CountWeights: []float64{1},
			Pool:         []WeightedSymbol{{"BTCUSDT", 1}, {"ETHUSDT", 1}},
			EntryOffset:  Range{Min: -0.015, Max: 0.01},
			LongProb:     1,
			Leverage:     Leverage{Majors: []int{2, 3}, Alts: []int{2, 3}},
			Notional: Notional{
				ClassFlagship: {Min: 30000, Max: 50000},
				ClassMajor:    {Min: 20000, Max: 30000},
				ClassAlt:      {Min: 8000, Max: 12000},
			},
		},
		Decisions: DecisionProfile{
			ActionProb: 0.10,
			CloseProb:  0.4,
			Pool:       []WeightedSymbol{{"BTCUSDT", 0.5}, {"ETHUSDT", 0.35}, {"SOLUSDT", 0.15}},
			LongProb:   0.82,
			Leverage:   Leverage{Majors: []int{2, 3}, Alts: []int{2, 3}},
			Notional:   openNotional,
			LatencyMs:  IntRange{Min: 3000, Max: 12000},
		},
	},
	"volatile": {
		Name: "volatile",
		Shape: Shape{
			Linear{Slope: 0.03},
			Sine{Amp: 0.08, Cycles: 1.5},
			Sine{Amp: 0.05, Cycles: 3.2, Phase: 1},
			Gaussian{Amp: -0.06, Center: 0.55, Width: 0.04},
			Gaussian{Amp: 0.04, Center: 0.35, Width: 0.03},
		},
		Noise: 0.0035,
		Positions: PositionProfile{
			HoldProb:     0.65,
			CountWeights: []float64{0.3, 0.4, 0.3},
			Pool: []WeightedSymbol{
				{"SOLUSDT", 1}, {"BTCUSDT", 1}, {"ETHUSDT", 1},
				{"DOGEUSDT", 1}, {"BNBUSDT", 1}, {"XRPUSDT", 1},
			},
			EntryOffset: Range{Min: -0.04, Max: 0.025},
			LongProb:    0.5,
			Leverage:    Leverage{Majors: []int{2, 3}, Alts: []int{2, 3}},
			Notional: Notional{
				ClassFlagship: {Min: 40000, Max: 70000},
				ClassMajor:    {Min: 25000, Max: 45000},
				ClassAlt:      {Min: 8000, Max: 15000},
			},
		},
		Decisions: DecisionProfile{
			ActionProb: 0.32,
			CloseProb:  0.4,
			Pool: []WeightedSymbol{
				{"SOLUSDT", 1}, {"BTCUSDT", 1}, {"ETHUSDT", 1},
				{"DOGEUSDT", 1}, {"BNBUSDT", 1}, {"XRPUSDT", 1},
			},
			LongProb:  0.50,
			Leverage:  Leverage{Majors: []int{2, 3}, Alts: []int{2, 3}},
			Notional:  openNotional,
			LatencyMs: IntRange{Min: 2500, Max: 10000},
		},
	},
	"underperformer": {
		Name: "underperformer",
		Shape: Shape{
			Linear{Slope: -0.01},
			RiseDecay{Amp: 0.06, Peak: 0.4, Decay: 3},
			HalfSine{Amp: -0.12, Start: 0.4, End: 0.75},
			Ramp{Amp: 0.03, Start: 0.75},
		},
		Noise:      0.0018,
		Correction: &Correction{FinalReturn: -0.05, Fraction: 0.2},
		Positions: PositionProfile{
			HoldProb:     0.45,
			CountWeights: []float64{0.6, 0.4},
			Pool: []WeightedSymbol{
				{"BTCUSDT", 1}, {"ETHUSDT", 1}, {"SOLUSDT", 1}, {"BNBUSDT", 1},
			},
			EntryOffset: Range{Min: -0.035, Max: 0.02},
			LongProb:    0.5,
			Leverage:    Leverage{Majors: []int{3, 5}, Alts: []int{2, 3}},
			Notional: Notional{
				ClassFlagship: {Min: 40000, Max: 60000},
				ClassMajor:    {Min: 25000, Max: 40000},
				ClassAlt:      {Min: 8000, Max: 12000},
			},
		},
		Decisions: DecisionProfile{
			ActionProb: 0.18,
			CloseProb:  0.4,
			Pool: []WeightedSymbol{
				{"BTCUSDT", 1}, {"ETHUSDT", 1}, {"SOLUSDT", 1}, {"BNBUSDT", 1},
			},
			LongProb:  0.55,
			Leverage:  Leverage{Majors: []int{3, 5}, Alts: []int{2, 3}},
			Notional:  openNotional,
			LatencyMs: IntRange{Min: 4000, Max: 15000},
		},
	},
}

// LookupArchetype returns the built-in archetype with the given name.
func LookupArchetype(name string) (Archetype, error) {
	a, ok := archetypes[name]
	if !ok {
		return Archetype{}, fmt.Errorf("unknown archetype %q (known: %v)", name, ArchetypeNames())
	}
	return a, nil
}

// ArchetypeNames lists the built-in archetypes in sorted order.
func ArchetypeNames() []string {
	names := make([]string, 0, len(archetypes))
	for name := range archetypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Symbols returns every symbol the archetype may trade.
func (a Archetype) Symbols() []string {
	seen := make(map[string]bool)
	var out []string
	for _, pool := range [][]WeightedSymbol{a.Positions.Pool, a.Decisions.Pool} {
		for _, ws := range pool {
			if !seen[ws.Symbol] {
				seen[ws.Symbol] = true
				out = append(out, ws.Symbol)
			}
		}
	}
	return out
}

// Trader binds an identity and output directory to one archetype.
type Trader struct {
	ID        string
	Label     string
	Dir       string
	Archetype Archetype
}
