// Package synth holds the generative core: equity curves, price surfaces,
// positions, decisions and record assembly. Every generator draws from an
// explicitly passed *Rand so a run is reproducible from its seed.
package synth

import "math/rand/v2"

// Rand is a seedable random stream. It is not safe for concurrent use; give
// each trader its own stream.
type Rand struct {
	r *rand.Rand
}

// NewRand returns the PCG stream identified by (seed, stream).
func NewRand(seed, stream uint64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(seed, stream))}
}

// Float64 returns a uniform value in [0,1).
func (r *Rand) Float64() float64 { return r.r.Float64() }

// Bernoulli returns true with probability p. p ≤ 0 never fires.
func (r *Rand) Bernoulli(p float64) bool {
	return r.r.Float64() < p
}

// Uniform returns a uniform value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Gauss returns a normal deviate with the given mean and standard deviation.
func (r *Rand) Gauss(mean, sigma float64) float64 {
	return mean + sigma*r.r.NormFloat64()
}

// IntRange returns a uniform integer in [lo, hi].
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Pick returns a uniform index in [0, n). n must be positive.
func (r *Rand) Pick(n int) int {
	return r.r.IntN(n)
}

// PickInt returns a uniformly chosen element of values, or 0 when empty.
func (r *Rand) PickInt(values []int) int {
	if len(values) == 0 {
		return 0
	}
	return values[r.r.IntN(len(values))]
}

// WeightedIndex draws an index with probability proportional to its weight.
// Non-positive weights are never drawn; if no weight is positive the draw is
// uniform.
func (r *Rand) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return r.r.IntN(len(weights))
	}

	x := r.r.Float64() * total
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if x < w {
			return i
		}
		x -= w
	}
	return last
}

// SampleWeighted draws up to k distinct indices without replacement, each
// draw proportional to the remaining weights.
func (r *Rand) SampleWeighted(weights []float64, k int) []int {
	remaining := make([]float64, len(weights))
	positive := 0
	for i, w := range weights {
		if w > 0 {
			remaining[i] = w
			positive++
		}
	}
	k = min(k, positive)

	out := make([]int, 0, k)
	for range k {
		i := r.WeightedIndex(remaining)
		out = append(out, i)
		remaining[i] = 0
	}
	return out
}

// Read fills p with random bytes so the stream can back ID generators.
func (r *Rand) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(r.r.Uint32())
	}
	return len(p), nil
}
