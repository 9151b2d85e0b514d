package domain

import "math"

// Term is one additive component of an equity shape. At returns the
// contribution at time fraction t ∈ [0,1] as a fraction of the initial balance.
type Term interface {
	At(t float64) float64
}

// Shape is the deterministic target trajectory of an archetype.
type Shape []Term

// At sums every term at t.
func (s Shape) At(t float64) float64 {
	var v float64
	for _, term := range s {
		v += term.At(t)
	}
	return v
}

// Linear is the base trend: Slope is the total return reached at t=1.
type Linear struct {
	Slope float64
}

func (l Linear) At(t float64) float64 { return l.Slope * t }

// Gaussian is a localized bump (or dip, when Amp < 0) centered on Center.
type Gaussian struct {
	Amp    float64
	Center float64
	Width  float64
}

func (g Gaussian) At(t float64) float64 {
	if g.Width <= 0 {
		return 0
	}
	d := t - g.Center
	return g.Amp * math.Exp(-(d*d)/(2*g.Width*g.Width))
}

// Sine is a periodic swing completing Cycles periods over the run.
type Sine struct {
	Amp    float64
	Cycles float64
	Phase  float64
}

func (s Sine) At(t float64) float64 {
	return s.Amp * math.Sin(2*math.Pi*s.Cycles*t+s.Phase)
}

// HalfSine is a single hump between Start and End, zero outside the window.
type HalfSine struct {
	Amp   float64
	Start float64
	End   float64
}

func (h HalfSine) At(t float64) float64 {
	if h.End <= h.Start || t < h.Start || t > h.End {
		return 0
	}
	return h.Amp * math.Sin(math.Pi*(t-h.Start)/(h.End-h.Start))
}

// RiseDecay climbs along a quarter sine to Amp at Peak, then decays
// exponentially with rate Decay. The rise ends at Amp rather than being a
// full sine hump that returns to zero, so the term has no jump at Peak.
type RiseDecay struct {
	Amp   float64
	Peak  float64
	Decay float64
}

func (r RiseDecay) At(t float64) float64 {
	if r.Peak <= 0 {
		return r.Amp * math.Exp(-r.Decay*t)
	}
	if t < r.Peak {
		return r.Amp * math.Sin(math.Pi/2*t/r.Peak)
	}
	return r.Amp * math.Exp(-r.Decay*(t-r.Peak))
}

// Ramp is flat until Start, then rises linearly to Amp at t=1.
type Ramp struct {
	Amp   float64
	Start float64
}

func (r Ramp) At(t float64) float64 {
	if t <= r.Start || r.Start >= 1 {
		return 0
	}
	return r.Amp * (t - r.Start) / (1 - r.Start)
}
