package monitoring

import (
	"bytes"
	"cmp"
	"errors"
	"runtime/pprof"
	"time"

	"github.com/google/pprof/profile"
	"golang.org/x/exp/slices"
)

// FunctionSample is the CPU time spent in a function itself, excluding its
// callees.
type FunctionSample struct {
	Name  string        `yaml:"name"`
	Flat  time.Duration `yaml:"flat"`
	Share float64       `yaml:"share"`
}

// Profiler records a CPU profile of the process.
type Profiler struct {
	buf     *bytes.Buffer
	stopped bool
	prof    *profile.Profile
}

// StartProfile starts recording the CPU profile. Only one profile can be
// recorded at a time in a process.
func (m *Monitor) StartProfile() (*Profiler, error) {
	p := &Profiler{buf: bytes.NewBuffer(nil)}

	err := pprof.StartCPUProfile(p.buf)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Stop ends the recording and returns the top functions by flat CPU time. A
// non-positive top returns all the functions. Stopping again returns the same
// profile.
func (p *Profiler) Stop(top int) ([]FunctionSample, error) {
	if !p.stopped {
		pprof.StopCPUProfile()
		p.stopped = true

		prof, err := profile.ParseData(p.buf.Bytes())
		if err != nil {
			return nil, err
		}

		p.prof = prof
	}

	if p.prof == nil {
		return nil, errors.New("profile could not be parsed")
	}

	return topFunctions(p.prof, top), nil
}

func topFunctions(prof *profile.Profile, top int) []FunctionSample {
	valueIndex := cpuValueIndex(prof)
	if valueIndex < 0 {
		return nil
	}

	flat := make(map[string]int64)
	total := int64(0)

	for _, s := range prof.Sample {
		if len(s.Location) == 0 || len(s.Location[0].Line) == 0 {
			continue
		}

		fn := s.Location[0].Line[0].Function
		if fn == nil {
			continue
		}

		flat[fn.Name] += s.Value[valueIndex]
		total += s.Value[valueIndex]
	}

	samples := make([]FunctionSample, 0, len(flat))
	for name, ns := range flat {
		share := 0.0
		if total > 0 {
			share = float64(ns) / float64(total)
		}

		samples = append(samples, FunctionSample{
			Name:  name,
			Flat:  time.Duration(ns),
			Share: share,
		})
	}

	slices.SortFunc(samples, func(a, b FunctionSample) int {
		if c := cmp.Compare(b.Flat, a.Flat); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	if top > 0 && len(samples) > top {
		samples = samples[:top]
	}

	return samples
}

func cpuValueIndex(prof *profile.Profile) int {
	for i, st := range prof.SampleType {
		if st.Type == "cpu" {
			return i
		}
	}

	return -1
}
