// Package randutil builds seeded rand/v2 generators. Board placement,
// session restarts and simulation workers all take an explicit *rand.Rand,
// and deriving them here keeps every sequence reproducible from one int64.
package randutil

import rand "math/rand/v2"

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided
// int64. rand/v2's PCG wants two 64-bit seeds; both are derived from the
// one value through a splitmix-style finalizer so nearby seeds still
// produce unrelated streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
