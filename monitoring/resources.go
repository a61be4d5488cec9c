package monitoring

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// Resources is the CPU and memory use of the simulator process.
type Resources struct {
	CPUPercent float64 `yaml:"cpu_percent"`
	MemorySize uint64  `yaml:"memory_size"`
}

// ListResources measures the current process.
func (m *Monitor) ListResources() (Resources, error) {
	pid := os.Getpid()

	process, err := process.NewProcess(int32(pid))
	if err != nil {
		return Resources{}, err
	}

	cpuPercent, err := process.CPUPercent()
	if err != nil {
		return Resources{}, err
	}

	memorySize, err := process.MemoryInfo()
	if err != nil {
		return Resources{}, err
	}

	r := Resources{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	}

	return r, nil
}
