package util

import (
	"math/rand"
	"time"
)

// PRNG wraps a seeded random source so every consumer in a session draws
// from the same reproducible sequence. A seed of 0 uses the current time.
type PRNG struct {
	rng  *rand.Rand
	seed int64
}

func NewPRNG(seed int64) *PRNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNG{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed returns the effective seed.
func (p *PRNG) Seed() int64 { return p.seed }

// Float64 returns a number in [0.0, 1.0).
func (p *PRNG) Float64() float64 {
	return p.rng.Float64()
}

// Intn returns an integer in [0, n).
func (p *PRNG) Intn(n int) int {
	return p.rng.Intn(n)
}

// Range returns a number in [lo, hi).
func (p *PRNG) Range(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}
