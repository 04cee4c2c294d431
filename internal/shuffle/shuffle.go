package shuffle

import (
	"math/rand/v2"
	"time"
)

// Shuffle returns a uniformly random permutation of src as a new slice.
// The input slice is left untouched.
func Shuffle[T any](src []T, rng *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Pick shuffles pool and returns at most n of its elements.
func Pick[T any](pool []T, n int, rng *rand.Rand) []T {
	if n <= 0 {
		return nil
	}
	shuffled := Shuffle(pool, rng)
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandFromTime returns a generator seeded from the wall clock.
func NewRandFromTime() *rand.Rand {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, rand.Uint64()))
}
