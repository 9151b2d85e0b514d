package domain

import (
	"fmt"
	"math"
)

// Class groups instruments by size tier. Notional and leverage tables are
// keyed by class.
type Class string

const (
	ClassFlagship Class = "flagship"
	ClassMajor    Class = "major"
	ClassAlt      Class = "alt"
)

// IsMajor reports whether the class trades under the majors leverage table.
func (c Class) IsMajor() bool {
	return c == ClassFlagship || c == ClassMajor
}

// Valid reports whether c is a known class.
func (c Class) Valid() bool {
	switch c {
	case ClassFlagship, ClassMajor, ClassAlt:
		return true
	}
	return false
}

// Wave is one sinusoidal component of an instrument's drift.
type Wave struct {
	Amp    float64
	Cycles float64
	Phase  float64
}

// Instrument is a tradable perpetual with its synthetic drift parameters.
type Instrument struct {
	Symbol string
	Base   float64
	Class  Class
	Waves  []Wave
	Trend  float64 // linear drift reached at t=1, fraction of Base
}

// Drift returns the deterministic fractional move away from Base at t.
func (i Instrument) Drift(t float64) float64 {
	d := i.Trend * t
	for _, w := range i.Waves {
		d += w.Amp * math.Sin(2*math.Pi*w.Cycles*t+w.Phase)
	}
	return d
}

// PriceDecimals is the quote precision for the instrument.
func (i Instrument) PriceDecimals() int {
	return PriceDecimals(i.Base)
}

// Validate checks that the instrument can be priced.
func (i Instrument) Validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("instrument: empty symbol")
	}
	if i.Base <= 0 {
		return fmt.Errorf("instrument %s: base price must be positive, got %v", i.Symbol, i.Base)
	}
	if !i.Class.Valid() {
		return fmt.Errorf("instrument %s: unknown class %q", i.Symbol, i.Class)
	}
	return nil
}

// Quote is one instrument's price within a surface.
type Quote struct {
	Price    float64
	Class    Class
	Decimals int
}

// PriceSurface maps symbol to quote at a single step.
type PriceSurface map[string]Quote

// Price returns the quoted price for symbol.
func (s PriceSurface) Price(symbol string) (float64, bool) {
	q, ok := s[symbol]
	return q.Price, ok
}

// DefaultInstruments is the built-in USDT-perpetual universe.
func DefaultInstruments() []Instrument {
	return []Instrument{
		{Symbol: "BTCUSDT", Base: 105000, Class: ClassFlagship, Trend: 0.04,
			Waves: []Wave{{Amp: 0.06, Cycles: 1.5}, {Amp: 0.02, Cycles: 4}}},
		{Symbol: "ETHUSDT", Base: 3300, Class: ClassMajor, Trend: 0.03,
			Waves: []Wave{{Amp: 0.08, Cycles: 1.2, Phase: 0.5}}},
		{Symbol: "SOLUSDT", Base: 260, Class: ClassAlt, Trend: 0.02,
			Waves: []Wave{{Amp: 0.12, Cycles: 2.0, Phase: 1.0}}},
		{Symbol: "BNBUSDT", Base: 700, Class: ClassAlt, Trend: 0.01,
			Waves: []Wave{{Amp: 0.05, Cycles: 1.0, Phase: 0.3}}},
		{Symbol: "DOGEUSDT", Base: 0.35, Class: ClassAlt, Trend: 0.01,
			Waves: []Wave{{Amp: 0.18, Cycles: 2.5, Phase: 2.0}}},
		{Symbol: "XRPUSDT", Base: 2.80, Class: ClassAlt, Trend: 0.02,
			Waves: []Wave{{Amp: 0.10, Cycles: 1.8, Phase: 1.5}}},
		{Symbol: "ADAUSDT", Base: 0.95, Class: ClassAlt, Trend: 0.01,
			Waves: []Wave{{Amp: 0.08, Cycles: 1.3, Phase: 0.8}}},
		{Symbol: "HYPEUSDT", Base: 45.0, Class: ClassAlt, Trend: 0.02,
			Waves: []Wave{{Amp: 0.07, Cycles: 1.5, Phase: 1.2}}},
	}
}

// Symbols lists the instrument symbols in order.
func Symbols(instruments []Instrument) []string {
	out := make([]string, len(instruments))
	for i, inst := range instruments {
		out[i] = inst.Symbol
	}
	return out
}
