// Package rng provides the seeded pseudo-random streams used by the sampling
// pipeline.
//
// Every stage owns a private stream so no generator state is ever shared
// between goroutines. All streams of one run are derived from a single master
// seed, which makes a seeded run reproducible end to end.
package rng

import (
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/mathext/prng"
)

// Source is a 64-bit generator. It matches rand.Source from math/rand/v2 and
// the source type accepted by gonum's distuv distributions.
type Source interface {
	// Uint64 returns a random number in [0, MaxUint64] and advances the
	// generator's state.
	Uint64() uint64
}

// Stream indexes the independent streams derived from one master seed.
type Stream uint64

const (
	// StreamGenerator feeds the proposal distribution.
	StreamGenerator Stream = iota + 1
	// StreamAcceptor feeds the accept/reject uniform draws.
	StreamAcceptor
)

// NewSource returns a Mersenne Twister seeded with seed.
func NewSource(seed uint64) *prng.MT19937 {
	src := prng.NewMT19937()
	src.Seed(seed)
	return src
}

// New returns a uniform generator over a fresh MT19937 seeded with seed.
// The result is not safe for concurrent use; give each goroutine its own.
func New(seed uint64) *rand.Rand {
	return rand.New(NewSource(seed))
}

// Derive returns the seed of stream s under master. Distinct streams yield
// decorrelated seeds even for adjacent master values.
func Derive(master uint64, s Stream) uint64 {
	return splitmix64(master + uint64(s)*0x9e3779b97f4a7c15)
}

// TimeSeed returns a master seed for runs that did not request one.
func TimeSeed() uint64 {
	return splitmix64(uint64(time.Now().UnixNano()))
}

// splitmix64 is the SplitMix64 output function.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Locked wraps src so it can be shared between goroutines.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

type lockedSource struct {
	lock sync.Mutex
	src  Source
}

func (l *lockedSource) Uint64() uint64 {
	// Uint64 mutates generator state, so reads need the lock too.
	l.lock.Lock()
	n := l.src.Uint64()
	l.lock.Unlock()
	return n
}
