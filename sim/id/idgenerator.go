// Package id generates identifiers for simulation objects.
package id

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewIDGenerator returns a generator that emits "1", "2", "3", and so on.
// Sequential IDs keep traces of two runs with the same seed comparable.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	id := strconv.FormatUint(idNumber, 10)

	return id
}

// NewRunIDGenerator returns a generator of globally unique IDs, used to tell
// apart simulation runs that execute in the same process.
func NewRunIDGenerator() IDGenerator {
	return runIDGenerator{}
}

type runIDGenerator struct{}

func (g runIDGenerator) Generate() string {
	return xid.New().String()
}
