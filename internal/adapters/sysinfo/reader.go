package sysinfo

import (
	"math"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
)

// Reader implements ports.HostMetrics with gopsutil.
type Reader struct{}

// NewReader points gopsutil at the host's /proc mount so RAM/CPU/load
// figures describe the host rather than this container.
func NewReader(procPath string) *Reader {
	if procPath != "" {
		os.Setenv("HOST_PROC", procPath)
	}
	return &Reader{}
}

func (r *Reader) DiskUsage(path string) (domain.DiskUsage, error) {
	du, err := disk.Usage(path)
	if err != nil {
		return domain.DiskUsage{}, err
	}
	return domain.DiskUsage{
		Path:    path,
		Total:   du.Total,
		Used:    du.Used,
		Free:    du.Free,
		Percent: round1(du.UsedPercent),
	}, nil
}

// Memory reports host RAM. Free is the kernel's "available" figure, which
// is what an operator wants to see, not the strictly-unused count.
func (r *Reader) Memory() (domain.MemoryUsage, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return domain.MemoryUsage{}, err
	}
	return domain.MemoryUsage{
		Total:   vm.Total,
		Used:    vm.Used,
		Free:    vm.Available,
		Percent: round1(vm.UsedPercent),
	}, nil
}

// CPUPercent samples total CPU utilization over the given window.
func (r *Reader) CPUPercent(window time.Duration) (float64, error) {
	pcts, err := cpu.Percent(window, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, nil
	}
	return round1(pcts[0]), nil
}

func (r *Reader) LoadAverages() (domain.LoadAverages, error) {
	avg, err := load.Avg()
	if err != nil {
		return domain.LoadAverages{}, err
	}
	return domain.LoadAverages{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
