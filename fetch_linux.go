//go:build linux

package memorymap

import (
	"fmt"

	"github.com/bestrauc/memory-map/procfs"
)

// FetchOne assembles a single process's full ProcessInformation
// (maps, pagemap where permitted, and the supplemented RSS/CPU/cgroup
// fields). Unlike Scan, a NotAccessible error here is returned to the
// caller rather than silently skipped: a directly-requested PID that
// has exited, or whose stat or maps cannot be read, is the caller's
// problem to handle.
func FetchOne(pid uint64) (ProcessInformation, error) {
	info, err := AssembleProcess(pid, true)
	if err != nil {
		return ProcessInformation{}, err
	}
	if !info.HasRegions {
		return ProcessInformation{}, fmt.Errorf("%w: /proc/%d/maps", procfs.ErrNotAccessible, pid)
	}
	return info, nil
}
