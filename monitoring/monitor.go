// Package monitoring reports on a running simulation: tick progress, process
// resources, CPU profiles and state dumps of the simulated objects.
package monitoring

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/syifan/goseth"

	"github.com/sarchlab/csmacd/sim/id"
	"github.com/sarchlab/csmacd/sim/naming"
	"github.com/sarchlab/csmacd/sim/timing"
)

// Component is anything the monitor can look up by name and dump.
type Component = naming.Named

// Monitor keeps track of the objects of one or more runs. It does not change
// the outcome of a run.
type Monitor struct {
	logger     *log.Logger
	barIDs     id.IDGenerator
	components []Component

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar
}

// NewMonitor creates a new Monitor. Progress is written to logger, which may
// be nil to keep progress silent.
func NewMonitor(logger *log.Logger) *Monitor {
	return &Monitor{
		logger: logger,
		barIDs: id.NewIDGenerator(),
	}
}

// RegisterComponent registers a component so that it can be dumped.
func (m *Monitor) RegisterComponent(c Component) {
	m.components = append(m.components, c)
}

// RegisterClock creates a progress bar that follows the ticks of the clock.
func (m *Monitor) RegisterClock(name string, c *timing.Clock) *ProgressBar {
	bar := m.CreateProgressBar(name, c.TotalTicks())
	c.AcceptHook(newProgressHook(bar, m.logger, func() {
		m.CompleteProgressBar(bar)
	}))

	return bar
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        m.barIDs.Generate(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar from the monitor.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// ProgressBars returns the bars that are not completed.
func (m *Monitor) ProgressBars() []*ProgressBar {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	bars := make([]*ProgressBar, len(m.progressBars))
	copy(bars, m.progressBars)

	return bars
}

// DumpComponent writes the state of the named component as JSON, descending
// at most depth levels into its fields.
func (m *Monitor) DumpComponent(w io.Writer, name string, depth int) error {
	c := m.findComponent(name)
	if c == nil {
		return fmt.Errorf("component %s not found", name)
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(depth)

	return serializer.Serialize(w)
}

func (m *Monitor) findComponent(name string) Component {
	for _, c := range m.components {
		if c.Name() == name {
			return c
		}
	}

	return nil
}
