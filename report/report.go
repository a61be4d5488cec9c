// Package report renders the outcome of a run, or of a set of replications, as
// the two result lines of the simulator or as YAML.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/csmacd/monitoring"
	"github.com/sarchlab/csmacd/simulation"
)

// Params echoes the run parameters.
type Params struct {
	Duration     int     `yaml:"duration"`
	NumStations  int     `yaml:"num_stations"`
	ArrivalRate  float64 `yaml:"arrival_rate"`
	LinkSpeed    int     `yaml:"link_speed"`
	PacketLength int     `yaml:"packet_length"`
	Persistence  float64 `yaml:"persistence"`
	Policy       string  `yaml:"policy"`
}

// Counters are the totals over all the stations.
type Counters struct {
	Generated    uint64 `yaml:"generated"`
	Transmitted  uint64 `yaml:"transmitted"`
	Dropped      uint64 `yaml:"dropped"`
	Overflowed   uint64 `yaml:"overflowed"`
	Queued       uint64 `yaml:"queued"`
	Collisions   uint64 `yaml:"collisions"`
	PeakBusy     int    `yaml:"peak_busy"`
	PeakAttempts int    `yaml:"peak_attempts"`
}

// Replications summarizes the spread over independent runs.
type Replications struct {
	Seeds      []uint64            `yaml:"seeds"`
	Throughput simulation.Estimate `yaml:"throughput"`
	MeanDelay  simulation.Estimate `yaml:"mean_delay"`
	DropRatio  simulation.Estimate `yaml:"drop_ratio"`
}

// A Report holds everything the simulator prints. Optional parts are left
// empty when the matching feature is off.
type Report struct {
	RunID   string `yaml:"run_id,omitempty"`
	Seed    uint64 `yaml:"seed"`
	Sensing string `yaml:"sensing"`
	Params  Params `yaml:"params"`

	Throughput          float64  `yaml:"throughput"`
	MeanDelay           *float64 `yaml:"mean_delay"`
	DropRatio           *float64 `yaml:"drop_ratio"`
	ChannelIdleFraction float64  `yaml:"channel_idle_fraction"`
	MeanQueueLength     float64  `yaml:"mean_queue_length"`

	Counters     *Counters                   `yaml:"counters,omitempty"`
	Replications *Replications               `yaml:"replications,omitempty"`
	Events       map[string]uint64           `yaml:"events,omitempty"`
	Resources    *monitoring.Resources       `yaml:"resources,omitempty"`
	Profile      []monitoring.FunctionSample `yaml:"profile,omitempty"`
}

// FromSimulation reports on a finished run.
func FromSimulation(s *simulation.Simulation) Report {
	r := s.Results()

	rep := Report{
		RunID:               s.ID(),
		Seed:                s.Seed(),
		Sensing:             s.Channel().Mode().String(),
		Params:              makeParams(s.Params()),
		Throughput:          r.Throughput(),
		ChannelIdleFraction: r.ChannelIdleFraction(),
		MeanQueueLength:     r.MeanQueueLength(),
		Counters: &Counters{
			Generated:    r.Generated,
			Transmitted:  r.Transmitted,
			Dropped:      r.Dropped,
			Overflowed:   r.Overflowed,
			Queued:       r.Queued,
			Collisions:   r.Collisions,
			PeakBusy:     r.Channel.PeakBusy,
			PeakAttempts: r.PeakAttempts,
		},
	}

	if d, err := r.MeanDelay(); err == nil {
		rep.MeanDelay = &d
	}

	if d, err := r.DropRatio(); err == nil {
		rep.DropRatio = &d
	}

	return rep
}

// FromSummary reports the means over a set of replications.
func FromSummary(
	p simulation.Params,
	sensing string,
	summary simulation.Summary,
) Report {
	rep := Report{
		Sensing:             sensing,
		Params:              makeParams(p),
		Throughput:          summary.Throughput.Mean,
		ChannelIdleFraction: summary.IdleFraction.Mean,
		MeanQueueLength:     summary.MeanQueueLength.Mean,
		Replications: &Replications{
			Seeds:      summary.Seeds,
			Throughput: summary.Throughput,
			MeanDelay:  summary.MeanDelay,
			DropRatio:  summary.DropRatio,
		},
	}

	if len(summary.Seeds) > 0 {
		rep.Seed = summary.Seeds[0]
	}

	if summary.MeanDelay.N > 0 {
		d := summary.MeanDelay.Mean
		rep.MeanDelay = &d
	}

	if summary.DropRatio.N > 0 {
		d := summary.DropRatio.Mean
		rep.DropRatio = &d
	}

	return rep
}

func makeParams(p simulation.Params) Params {
	rp := Params{
		Duration:     p.Duration,
		NumStations:  p.NumStations,
		ArrivalRate:  p.ArrivalRate,
		LinkSpeed:    p.LinkSpeed,
		PacketLength: p.PacketLength,
		Persistence:  p.Persistence,
	}

	if policy, err := p.Policy(); err == nil {
		rp.Policy = policy.Name()
	}

	return rp
}

// WriteText writes the throughput and delay lines, followed by the optional
// parts of the report. An undefined delay is written as NaN.
func (r Report) WriteText(w io.Writer) error {
	delay := math.NaN()
	if r.MeanDelay != nil {
		delay = *r.MeanDelay
	}

	b := new(strings.Builder)

	fmt.Fprintf(b, "Throughput = %s packets per second\n", formatFloat(r.Throughput))
	fmt.Fprintf(b, "Avg delay = %s seconds per packet\n", formatFloat(delay))

	if rep := r.Replications; rep != nil {
		fmt.Fprintf(b, "Replications = %d\n", len(rep.Seeds))
		writeEstimate(b, "Throughput", rep.Throughput)
		writeEstimate(b, "Avg delay", rep.MeanDelay)
	}

	for _, name := range sortedKeys(r.Events) {
		fmt.Fprintf(b, "%s = %d\n", name, r.Events[name])
	}

	if r.Resources != nil {
		fmt.Fprintf(b, "CPU = %s%%\n", formatFloat(r.Resources.CPUPercent))
		fmt.Fprintf(b, "Memory = %d bytes\n", r.Resources.MemorySize)
	}

	for _, f := range r.Profile {
		fmt.Fprintf(b, "%6.2f%% %10s %s\n", 100*f.Share, f.Flat, f.Name)
	}

	_, err := io.WriteString(w, b.String())

	return err
}

func writeEstimate(b *strings.Builder, name string, e simulation.Estimate) {
	fmt.Fprintf(b, "%s mean = %s, stddev = %s, median = %s, min = %s, max = %s\n",
		name,
		formatFloat(e.Mean),
		formatFloat(e.StdDev),
		formatFloat(e.Median),
		formatFloat(e.Min),
		formatFloat(e.Max))
}

func sortedKeys(m map[string]uint64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// formatFloat prints six significant digits without trailing zeros.
func formatFloat(x float64) string {
	return fmt.Sprintf("%.6g", x)
}

// WriteYAML writes the whole report as a YAML document.
func (r Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return err
	}

	return enc.Close()
}
