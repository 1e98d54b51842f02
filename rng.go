package maybenot

import (
	"math/rand"
	"sync"
)

// RNG is the randomness capability injected into a Framework. It is the
// only source of randomness the engine is permitted to consume; no
// distribution sampler may reach for the global math/rand state (§4.1).
type RNG interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// mathRNG adapts a *rand.Rand into an RNG, the production implementation.
type mathRNG struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRNG wraps a seeded *rand.Rand as the Framework's RNG capability.
func NewRNG(seed int64) RNG {
	return &mathRNG{src: rand.New(rand.NewSource(seed))} //nolint:gosec // deterministic PRNG by design, not cryptographic
}

// Float64 returns a pseudo-random number in [0.0, 1.0).
func (r *mathRNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// rngSource adapts an RNG into a rand.Source64-free rand.Source for the
// gonum distuv samplers, which want a *rand.Rand. distuv never needs more
// than Float64's worth of entropy through this adapter since every kind
// routed through it samples via Rand().Float64() internally.
type rngSource struct {
	rng RNG
}

// Int63 satisfies rand.Source by scaling a Float64 draw into the 63-bit
// range. distuv distributions built on top of this source only ever call
// Float64 (via *rand.Rand.Float64), so fidelity here is adequate even
// though Int63 alone would be a biased generator for direct integer use.
func (s rngSource) Int63() int64 {
	return int64(s.rng.Float64() * (1 << 63))
}

// Seed is a no-op: seeding is the injected RNG's responsibility, not this
// adapter's.
func (s rngSource) Seed(int64) {}

// asRand adapts an injected RNG into a *rand.Rand for gonum/stat/distuv,
// whose distribution types take a Src rand.Source (or *rand.Rand) field.
func asRand(rng RNG) *rand.Rand {
	return rand.New(rngSource{rng: rng})
}

// Scripted, replayable draws for tests live in internal/mbtest.SequenceRNG
// rather than a package-private type here, so there is exactly one
// implementation instead of two drifting copies.
