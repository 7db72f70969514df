package ports

import (
	"time"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
)

// HostMetrics reads resource accounting from the host's mounted /proc and
// filesystem. Each call may fail independently (missing mount, unsupported
// platform); failures are reported, not retried.
type HostMetrics interface {
	DiskUsage(path string) (domain.DiskUsage, error)
	Memory() (domain.MemoryUsage, error)
	CPUPercent(window time.Duration) (float64, error)
	LoadAverages() (domain.LoadAverages, error)
}
