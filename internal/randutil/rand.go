// Package randutil centralises how seeded random sources are built so that
// games dealt from the same seed are reproducible.
package randutil

import (
	"io"
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns seed unchanged when it is non-zero, otherwise a seed derived
// from the wall clock. Zero means "random" on every command line flag.
func Seed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return int64(mix(uint64(time.Now().UnixNano())) >> 1)
}

// Seeds derives n non-zero seeds from base, one per game of a batch, so a
// failing game can be replayed on its own.
func Seeds(base int64, n int) []int64 {
	r := New(base)
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = r.Int64() | 1
	}
	return seeds
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Reader adapts r to an io.Reader so byte-oriented generators (such as UUID
// constructors) can draw from a seeded source.
func Reader(r *rand.Rand) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		for i := range p {
			p[i] = byte(r.Uint32())
		}
		return len(p), nil
	})
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
