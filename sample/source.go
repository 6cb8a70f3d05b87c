package sample

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
)

// Source provides uniform floats in [0, 1). A Source is consumed by one
// sampler at a time, it is not safe for concurrent use.
//
// *math/rand.Rand and *golang.org/x/exp/rand.Rand satisfy this interface.
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for the given seed.
func NewSource(seed uint64) Source {
	mt := prng.NewMT19937()
	mt.Seed(seed)
	return rand.New(mt)
}

func NewTimeSource() Source {
	return NewSource(uint64(time.Now().UnixNano()))
}
