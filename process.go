package memorymap

import (
	"github.com/bestrauc/memory-map/cgroupinfo"
	"github.com/bestrauc/memory-map/procfs"
)

// ProcessInformation is everything this package can report about a
// single process: its scheduling state, optionally its full memory
// map, and a handful of supplemented accounting fields that have no
// counterpart in the original memory-map inspector this package is
// modeled on.
type ProcessInformation struct {
	PID   uint64
	Comm  string
	State procfs.ProcessState

	// Regions is present (HasRegions true) only when AssembleProcess
	// was called with loadMapping set: metadata-only scans skip the
	// maps/pagemap reads entirely.
	Regions    []procfs.MemoryRegion
	HasRegions bool

	// CGroup is the process's cgroup hierarchy membership. Absent if
	// cgroup resolution was not requested, or failed (e.g. the host
	// has no cgroup mounts at all); a failure here never fails the
	// surrounding AssembleProcess call.
	CGroup    cgroupinfo.ProcessCGroupSummary
	HasCGroup bool

	// RSS/MaxRSS are in bytes; CPUTime is cumulative since process
	// start. All three are best-effort supplements: their absence
	// does not indicate AssembleProcess failed.
	RSS       int64
	HasRSS    bool
	MaxRSS    int64
	HasMaxRSS bool
	CPUTime   CPUTime
	HasCPU    bool
}
