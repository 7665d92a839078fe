package domain

import "math/rand"

// RandSource supplies the shuffling used by SamplePriority. It matches the
// method set of *rand.Rand so tests can install a seeded generator.
type RandSource interface {
	Shuffle(n int, swap func(i, j int))
}

// globalRand delegates to the math/rand/v2 package-level functions, which
// are safe for concurrent use across horizon refreshes.
type globalRand struct{}

func (globalRand) Shuffle(n int, swap func(i, j int)) {
	rand.Shuffle(n, swap)
}

// sampleRand is the package-level randomness source, swappable like the
// clock so sampling can be tested deterministically.
var sampleRand RandSource = globalRand{}

// SetRandSource swaps the randomness source for sampling. Pass nil to reset
// to the shared non-deterministic source.
func SetRandSource(r RandSource) {
	if r == nil {
		sampleRand = globalRand{}
		return
	}
	sampleRand = r
}
