package domain

// DiskUsage describes usage of one mounted filesystem. Sizes in bytes,
// Percent rounded to one decimal.
type DiskUsage struct {
	Path    string
	Total   uint64
	Used    uint64
	Free    uint64
	Percent float64
}

// MemoryUsage describes host RAM. Free is the available figure, not the
// strictly-unused one.
type MemoryUsage struct {
	Total   uint64
	Used    uint64
	Free    uint64
	Percent float64
}

// LoadAverages is the classic 1/5/15 minute triple.
type LoadAverages struct {
	Load1  float64
	Load5  float64
	Load15 float64
}
