package synth

import "github.com/alejandrodnm/tradersim/internal/domain"

// SmoothWindow is the half-window of the equity smoother. Archetype shapes
// are tuned against this value.
const SmoothWindow = 3

// EquityCurve synthesizes a balance path of length points for the archetype,
// starting at initial.
//
// The noiseless target is smoothed after noise is added; the first and last
// SmoothWindow points keep their raw noisy values. Archetypes with a
// Correction get a linearly ramped offset over their trailing fraction so the
// last point lands near the forced final balance.
func EquityCurve(rng *Rand, points int, initial float64, a domain.Archetype) []float64 {
	if points <= 0 {
		return nil
	}

	noisy := make([]float64, points)
	sigma := a.Noise * initial
	for i := range noisy {
		t := timeFraction(i, points)
		noisy[i] = a.Target(initial, t) + rng.Gauss(0, sigma)
	}

	curve := Smooth(noisy, SmoothWindow)
	for i, v := range curve {
		curve[i] = domain.RoundCents(v)
	}

	if a.Correction != nil {
		applyCorrection(curve, initial*(1+a.Correction.FinalReturn), a.Correction.Fraction)
	}
	return curve
}

// Smooth applies a centered moving average of half-width window. Points
// closer than window to either edge are copied unchanged.
func Smooth(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	if window <= 0 {
		return out
	}

	span := float64(2*window + 1)
	for i := window; i < len(values)-window; i++ {
		var sum float64
		for _, v := range values[i-window : i+window+1] {
			sum += v
		}
		out[i] = sum / span
	}
	return out
}

// applyCorrection ramps offset = target - last over the trailing fraction of
// points with factor i/k, so the ramp starts at zero and the last point stays
// one step short of the full offset. The slope break at the ramp start is
// intentional.
func applyCorrection(curve []float64, target, fraction float64) {
	n := len(curve)
	k := int(float64(n) * fraction)
	if k <= 0 {
		return
	}

	offset := target - curve[n-1]
	for i := range k {
		idx := n - k + i
		factor := float64(i) / float64(k)
		curve[idx] = domain.RoundCents(curve[idx] + offset*factor)
	}
}

// timeFraction maps index i of n points onto [0,1]. A single point sits at 0.
func timeFraction(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
