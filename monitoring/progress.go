package monitoring

import (
	"log"
	"sync"
	"time"

	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/sim/timing"
)

// A ProgressBar tracks how many ticks of a run have been processed.
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
}

// IncrementFinished adds a certain amount to the finished ticks.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// Percent returns the finished share in [0, 100].
func (b *ProgressBar) Percent() float64 {
	b.Lock()
	defer b.Unlock()

	if b.Total == 0 {
		return 100
	}

	return 100 * float64(b.Finished) / float64(b.Total)
}

// Elapsed returns the wall time since the bar was created.
func (b *ProgressBar) Elapsed() time.Duration {
	return time.Since(b.StartTime)
}

// progressHook advances a bar after every tick of a clock and logs each time
// another tenth of the run is done. done is called once, after the last tick.
type progressHook struct {
	bar    *ProgressBar
	logger *log.Logger
	done   func()
	step   uint64
	next   uint64
}

func newProgressHook(
	bar *ProgressBar,
	logger *log.Logger,
	done func(),
) *progressHook {
	step := bar.Total / 10
	if step == 0 {
		step = 1
	}

	return &progressHook{
		bar:    bar,
		logger: logger,
		done:   done,
		step:   step,
		next:   step,
	}
}

func (h *progressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != timing.HookPosAfterTick {
		return
	}

	h.bar.IncrementFinished(1)

	now := ctx.Item.(uint64)
	if now >= h.next {
		h.next += h.step
		h.log(now)
	}

	if now >= h.bar.Total && h.done != nil {
		h.done()
		h.done = nil
	}
}

func (h *progressHook) log(now uint64) {
	if h.logger == nil {
		return
	}

	h.logger.Printf("%s: %.0f%% (%d/%d ticks, %s)",
		h.bar.Name, h.bar.Percent(), now, h.bar.Total,
		h.bar.Elapsed().Round(time.Millisecond))
}
