package timing

import (
	"log"

	"github.com/sarchlab/csmacd/sim/hooking"
)

// HookPosBeforeTick is a hook position that triggers before any ticker runs in
// a tick. The hook item is the tick number.
var HookPosBeforeTick = &hooking.HookPos{Name: "BeforeTick"}

// HookPosAfterTick is a hook position that triggers after all the tickers ran
// in a tick. The hook item is the tick number.
var HookPosAfterTick = &hooking.HookPos{Name: "AfterTick"}

// A Clock drives a fixed set of tickers for a fixed number of ticks.
//
// Within a tick, tickers run in registration order and each one runs to
// completion before the next starts. Tickers that share state observe the
// changes made by the tickers registered before them in the same tick.
type Clock struct {
	hooking.HookableBase

	freq    Freq
	total   uint64
	now     uint64
	tickers []Ticker
	hasRun  bool
}

// NewClock creates a clock that runs for the given simulated duration.
func NewClock(freq Freq, duration VTimeInSec) *Clock {
	c := new(Clock)

	c.freq = freq
	c.total = freq.Cycle(duration)

	return c
}

// Name returns the name of the clock.
func (c *Clock) Name() string {
	return "Clock"
}

// Freq returns the frequency of the clock.
func (c *Clock) Freq() Freq {
	return c.freq
}

// TotalTicks returns the tick budget of the clock.
func (c *Clock) TotalTicks() uint64 {
	return c.total
}

// Now returns the number of the tick being processed, or the last tick
// processed once the clock has stopped.
func (c *Clock) Now() uint64 {
	return c.now
}

// NowInSec returns the current simulated time.
func (c *Clock) NowInSec() VTimeInSec {
	return c.freq.Seconds(c.now)
}

// RegisterTicker adds a ticker. The order of registration is the order in
// which tickers are updated within a tick.
func (c *Clock) RegisterTicker(t Ticker) {
	if c.hasRun {
		log.Panic("cannot register a ticker after the clock has run")
	}

	c.tickers = append(c.tickers, t)
}

// Run processes the whole tick budget. A clock can only run once.
func (c *Clock) Run() error {
	if c.hasRun {
		log.Panic("clock has already run")
	}

	c.hasRun = true

	for tick := uint64(1); tick <= c.total; tick++ {
		c.now = tick
		c.step()
	}

	return nil
}

func (c *Clock) step() {
	hasHooks := c.NumHooks() > 0

	if hasHooks {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosBeforeTick,
			Item:   c.now,
		})
	}

	for _, t := range c.tickers {
		t.Tick(c.now)
	}

	if hasHooks {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosAfterTick,
			Item:   c.now,
		})
	}
}
