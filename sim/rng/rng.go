// Package rng provides the random sources that drive arrivals, backoff draws
// and the p-persistent coin.
package rng

import (
	"fmt"
	"log"

	"github.com/iti/rngstream"
)

// Source is a stream of uniformly distributed random numbers.
type Source interface {
	// Float64 returns a number in (0, 1).
	Float64() float64

	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Moduli of the two MRG32k3a components.
const (
	m1 = 4294967087
	m2 = 4294944443
)

type streamSource struct {
	stream *rngstream.RngStream
}

// NewStreamSource returns a source backed by an MRG32k3a stream whose state is
// derived from the seed and the index. Sources created with the same seed and
// index produce the same sequence, in any process.
func NewStreamSource(name string, seed uint64, index int) Source {
	stream := rngstream.New(name)
	stream.SetSeed(streamSeed(seed, index))

	return &streamSource{stream: stream}
}

func (s *streamSource) Float64() float64 {
	return s.stream.RandU01()
}

func (s *streamSource) IntN(n int) int {
	if n <= 0 {
		log.Panicf("invalid argument to IntN: %d", n)
	}

	return s.stream.RandInt(0, n-1)
}

// streamSeed expands a seed and an index into the six words an MRG32k3a
// stream starts from. The first three words are in [1, m1) and the last three
// in [1, m2).
func streamSeed(seed uint64, index int) []uint64 {
	state := seed + uint64(index)*0xd1b54a32d192ed03
	words := make([]uint64, 6)

	for i := range words {
		m := uint64(m1)
		if i >= 3 {
			m = m2
		}

		words[i] = splitMix64(&state)%(m-1) + 1
	}

	return words
}

func splitMix64(state *uint64) uint64 {
	*state += 0x9e3779b97f4a7c15

	z := *state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb

	return z ^ (z >> 31)
}

// A Factory hands out the source used by the station with the given index.
type Factory func(station int) Source

// StreamFactory returns a factory that gives every station its own seeded
// stream.
func StreamFactory(seed uint64) Factory {
	return func(station int) Source {
		name := fmt.Sprintf("Station[%d]", station)
		return NewStreamSource(name, seed, station)
	}
}

// SharedFactory returns a factory that hands one seeded stream to every
// station, so all stations consume one sequence in processing order.
func SharedFactory(seed uint64) Factory {
	shared := NewStreamSource("Shared", seed, -1)

	return func(int) Source {
		return shared
	}
}
