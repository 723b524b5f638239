package systems

import "math/rand/v2"

// RNG is the seeded source behind every stochastic decision in a tick.
// Two engines built with the same seed and settings produce identical runs.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0x6c697069646f7365))}
}

// Float32 returns a uniform value in [0, 1).
func (r *RNG) Float32() float32 {
	return r.r.Float32()
}

// Range returns a uniform value in [lo, hi).
func (r *RNG) Range(lo, hi float32) float32 {
	return lo + r.r.Float32()*(hi-lo)
}

// Jitter returns a uniform value in [-amount/2, amount/2).
func (r *RNG) Jitter(amount float32) float32 {
	return (r.r.Float32() - 0.5) * amount
}

// Chance runs a Bernoulli trial with success probability p.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.r.Float64() < p
}
