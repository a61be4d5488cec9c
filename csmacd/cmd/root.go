// Package cmd provides the command-line interface of the simulator.
package cmd

import (
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/csmacd/csma"
	"github.com/sarchlab/csmacd/monitoring"
	"github.com/sarchlab/csmacd/report"
	"github.com/sarchlab/csmacd/sim/hooking"
	"github.com/sarchlab/csmacd/simulation"
)

type options struct {
	seed           uint64
	rng            string
	channel        string
	maxAttempts    int
	bufferCapacity int
	replications   int
	format         string
	progress       bool
	verbose        bool
	traceCounts    bool
	resources      bool
	profile        bool
	dumpStation    int
}

// NewRootCommand creates the csmacd command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "csmacd T N A W L P",
		Short: "Simulate stations sharing a CSMA/CD medium.",
		Long: `csmacd runs a tick level simulation of N stations that share one ` +
			`medium for T simulated seconds. Packets of L bits arrive at each ` +
			`station at A packets per second and are sent at W Mbps. P selects ` +
			`the persistence policy: 1 for 1-persistent, -1 for ` +
			`non-persistent, or a probability in (0, 1) for p-persistent.`,
		Args:         cobra.ExactArgs(6),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&opts.seed, "seed", 1, "seed the random streams are derived from")
	flags.StringVar(&opts.rng, "rng", "stream",
		"random source, stream (a stream per station) or shared (one stream)")
	flags.StringVar(&opts.channel, "channel", "inplace",
		"channel sensing, inplace (live counter) or snapshot (start of tick)")
	flags.IntVar(&opts.maxAttempts, "max-attempts", csma.DefaultMaxAttempts,
		"backoffs before a packet is dropped")
	flags.IntVar(&opts.bufferCapacity, "buffer-capacity", 0,
		"packets a station can hold, 0 for unbounded")
	flags.IntVar(&opts.replications, "replications", 1,
		"independent runs with consecutive seeds")
	flags.StringVar(&opts.format, "format", "text", "output format, text or yaml")
	flags.BoolVar(&opts.progress, "progress", false, "log the progress of runs")
	flags.BoolVar(&opts.verbose, "verbose", false, "log every station event")
	flags.BoolVar(&opts.traceCounts, "trace-counts", false,
		"report how many times each station event happened")
	flags.BoolVar(&opts.resources, "resources", false,
		"report the CPU and memory use of the process")
	flags.BoolVar(&opts.profile, "profile", false,
		"report the functions that used the most CPU time")
	flags.IntVar(&opts.dumpStation, "dump-station", -1,
		"dump the state of the station with the given index after the run")

	return cmd
}

// Execute runs the command and exits through atexit, so that registered
// cleanups run.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func parseParams(args []string) (simulation.Params, error) {
	var p simulation.Params

	ints := []struct {
		name string
		arg  string
		dst  *int
	}{
		{"T", args[0], &p.Duration},
		{"N", args[1], &p.NumStations},
		{"W", args[3], &p.LinkSpeed},
		{"L", args[4], &p.PacketLength},
	}

	for _, f := range ints {
		v, err := parseInt(f.name, f.arg)
		if err != nil {
			return p, err
		}

		*f.dst = v
	}

	var err error

	p.ArrivalRate, err = parseFloat("A", args[2])
	if err != nil {
		return p, err
	}

	p.Persistence, err = parseFloat("P", args[5])
	if err != nil {
		return p, err
	}

	return p, p.Validate()
}

func parseInt(name, arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q",
			simulation.ErrInvalidParams, name, arg)
	}

	return v, nil
}

func parseFloat(name, arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q",
			simulation.ErrInvalidParams, name, arg)
	}

	return v, nil
}

func (o *options) validate(p simulation.Params) error {
	if o.rng != "stream" && o.rng != "shared" {
		return fmt.Errorf("%w: unknown random source %q",
			simulation.ErrInvalidParams, o.rng)
	}

	if o.format != "text" && o.format != "yaml" {
		return fmt.Errorf("%w: unknown format %q",
			simulation.ErrInvalidParams, o.format)
	}

	if o.replications < 1 {
		return fmt.Errorf("%w: replications must be positive, got %d",
			simulation.ErrInvalidParams, o.replications)
	}

	if o.dumpStation >= p.NumStations {
		return fmt.Errorf("%w: station %d does not exist",
			simulation.ErrInvalidParams, o.dumpStation)
	}

	if o.dumpStation >= 0 && o.replications > 1 {
		return fmt.Errorf("%w: a station can only be dumped from a single run",
			simulation.ErrInvalidParams)
	}

	return nil
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	out := cmd.OutOrStdout()
	logger := log.New(cmd.ErrOrStderr(), "csmacd: ", 0)

	p, err := parseParams(args)
	if err != nil {
		return err
	}

	if err = opts.validate(p); err != nil {
		return err
	}

	mode, err := csma.ParseSensingMode(opts.channel)
	if err != nil {
		return fmt.Errorf("%w: %w", simulation.ErrInvalidParams, err)
	}

	builder := simulation.MakeBuilder().
		WithParams(p).
		WithSeed(opts.seed).
		WithSensingMode(mode).
		WithMaxAttempts(opts.maxAttempts).
		WithBufferCapacity(opts.bufferCapacity)

	if opts.rng == "shared" {
		builder = builder.WithSharedRandomSource()
	}

	if opts.verbose {
		builder = builder.WithStationHook(csma.NewEventLogger(logger))
	}

	var tracer *hooking.PosCountTracer
	if opts.traceCounts {
		tracer = hooking.NewPosCountTracer(nil)
		builder = builder.WithStationHook(tracer)
	}

	monitor := monitoring.NewMonitor(nil)
	if opts.progress {
		monitor = monitoring.NewMonitor(logger)
	}

	if opts.progress || opts.dumpStation >= 0 {
		builder = builder.WithMonitor(monitor)
	}

	var profiler *monitoring.Profiler
	if opts.profile {
		profiler, err = monitor.StartProfile()
		if err != nil {
			return err
		}

		atexit.Register(func() { _, _ = profiler.Stop(0) })
	}

	rep, err := simulate(builder, opts)
	if err != nil {
		return err
	}

	if tracer != nil {
		rep.Events = make(map[string]uint64)
		for _, name := range tracer.PosNames() {
			rep.Events[name] = tracer.Count(name)
		}
	}

	if profiler != nil {
		rep.Profile, err = profiler.Stop(10)
		if err != nil {
			return err
		}
	}

	if opts.resources {
		res, err := monitor.ListResources()
		if err != nil {
			return err
		}

		rep.Resources = &res
	}

	if err = write(out, rep, opts.format); err != nil {
		return err
	}

	if opts.dumpStation >= 0 {
		return dumpStation(out, monitor, opts.dumpStation)
	}

	return nil
}

func simulate(b simulation.Builder, opts *options) (report.Report, error) {
	if opts.replications > 1 {
		seeds := simulation.Seeds(opts.seed, opts.replications)

		summary, err := simulation.Replicate(b, seeds, 0)
		if err != nil {
			return report.Report{}, err
		}

		return report.FromSummary(
			b.Params(), b.SensingMode().String(), summary), nil
	}

	s, err := b.Build()
	if err != nil {
		return report.Report{}, err
	}

	if err := s.Run(); err != nil {
		return report.Report{}, err
	}

	return report.FromSimulation(s), nil
}

func write(w io.Writer, rep report.Report, format string) error {
	if format == "yaml" {
		return rep.WriteYAML(w)
	}

	return rep.WriteText(w)
}

func dumpStation(w io.Writer, m *monitoring.Monitor, index int) error {
	err := m.DumpComponent(w, simulation.StationName(index), 1)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w)

	return err
}
