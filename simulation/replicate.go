package simulation

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Estimate summarizes one metric over independent replications.
type Estimate struct {
	N      int
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
}

// Summary is the outcome of a set of replications.
type Summary struct {
	Seeds []uint64
	Runs  []Results

	Throughput      Estimate
	MeanDelay       Estimate
	DropRatio       Estimate
	IdleFraction    Estimate
	MeanQueueLength Estimate
}

// Seeds returns n consecutive seeds starting from first.
func Seeds(first uint64, n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = first + uint64(i)
	}

	return seeds
}

// Replicate runs one simulation per seed with the configuration of the
// builder and summarizes the results. Simulations are built one after another
// and run on up to workers goroutines. A non-positive workers uses GOMAXPROCS.
// Hooks attached to the builder are shared by all the runs and must be safe
// for concurrent use.
func Replicate(b Builder, seeds []uint64, workers int) (Summary, error) {
	sims := make([]*Simulation, 0, len(seeds))

	for _, seed := range seeds {
		s, err := b.WithSeed(seed).Build()
		if err != nil {
			return Summary{}, err
		}

		sims = append(sims, s)
	}

	if err := runAll(sims, workers); err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Seeds: seeds,
		Runs:  make([]Results, len(sims)),
	}

	for i, s := range sims {
		summary.Runs[i] = s.Results()
	}

	summary.summarize()

	return summary, nil
}

func runAll(sims []*Simulation, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	errs := make([]error, len(sims))

	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				errs[i] = sims[i].Run()
			}
		}()
	}

	for i := range sims {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *Summary) summarize() {
	var throughput, delay, drop, idle, queue []float64

	for _, r := range s.Runs {
		throughput = append(throughput, r.Throughput())
		idle = append(idle, r.ChannelIdleFraction())
		queue = append(queue, r.MeanQueueLength())

		if d, err := r.MeanDelay(); err == nil {
			delay = append(delay, d)
		}

		if d, err := r.DropRatio(); err == nil {
			drop = append(drop, d)
		}
	}

	s.Throughput = estimate(throughput)
	s.MeanDelay = estimate(delay)
	s.DropRatio = estimate(drop)
	s.IdleFraction = estimate(idle)
	s.MeanQueueLength = estimate(queue)
}

// estimate sorts xs in place. Metrics without any sample are reported as NaN.
func estimate(xs []float64) Estimate {
	if len(xs) == 0 {
		nan := math.NaN()
		return Estimate{Mean: nan, StdDev: nan, Median: nan, Min: nan, Max: nan}
	}

	slices.Sort(xs)

	e := Estimate{
		N:      len(xs),
		Min:    xs[0],
		Max:    xs[len(xs)-1],
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
	}

	e.Mean, e.StdDev = stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		e.StdDev = 0
	}

	return e
}
