package timing

// A Ticker is an object that updates states with ticks.
type Ticker interface {
	// Tick advances the state by one tick. Ticks are numbered from 1.
	Tick(now uint64)
}
