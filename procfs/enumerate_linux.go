package procfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// procRoot is the /proc mount point; a var rather than a const so
// tests can point enumeration at a fixture directory.
var procRoot = "/proc"

// EnumeratePIDs walks /proc and returns every child directory name
// that looks like a live, accessible process: numeric, and whose
// maps file can be opened. Opening maps is the permission/liveness
// probe: it excludes kernel threads and processes the caller cannot
// inspect. The returned order matches the directory iterator and
// carries no ordering guarantee.
func EnumeratePIDs() ([]uint64, error) {
	entries, readErr := os.ReadDir(procRoot)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read %s: %w", procRoot, readErr)
	}

	pids := make([]uint64, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, parseErr := strconv.ParseUint(entry.Name(), 10, 64)
		if parseErr != nil {
			continue
		}
		mapsPath := filepath.Join(procRoot, entry.Name(), "maps")
		f, openErr := os.Open(mapsPath)
		if openErr != nil {
			continue
		}
		f.Close()
		pids = append(pids, pid)
	}
	return pids, nil
}
