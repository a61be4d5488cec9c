package hooking

import (
	"sync"
)

// PosFilter decides whether a hook position should be counted.
type PosFilter func(pos *HookPos) bool

// AllPositions is a PosFilter that accepts every position.
func AllPositions(*HookPos) bool {
	return true
}

// PosCountTracer counts how many times each hook position is triggered.
type PosCountTracer struct {
	filter PosFilter
	lock   sync.Mutex

	posNames []string
	posCount map[string]uint64
}

// NewPosCountTracer creates a new PosCountTracer. A nil filter counts every
// position.
func NewPosCountTracer(filter PosFilter) *PosCountTracer {
	if filter == nil {
		filter = AllPositions
	}

	t := &PosCountTracer{
		filter:   filter,
		posCount: make(map[string]uint64),
	}

	return t
}

// Func counts the position of the hook context.
func (t *PosCountTracer) Func(ctx HookCtx) {
	if ctx.Pos == nil || !t.filter(ctx.Pos) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.countPos(ctx.Pos.Name)
}

func (t *PosCountTracer) countPos(name string) {
	_, ok := t.posCount[name]
	if !ok {
		t.posNames = append(t.posNames, name)
	}

	t.posCount[name]++
}

// PosNames returns the names of all the positions seen, in the order they were
// first seen.
func (t *PosCountTracer) PosNames() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	names := make([]string, len(t.posNames))
	copy(names, t.posNames)

	return names
}

// Count returns the number of times a position with the given name was
// triggered.
func (t *PosCountTracer) Count(name string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.posCount[name]
}
