//go:build linux

package memorymap

import "github.com/bestrauc/memory-map/procfs"

// Scan enumerates every accessible PID and assembles a metadata-only
// ProcessInformation for each (stat, RSS, CPU time, cgroup; no maps or
// pagemap walk). A process that exits between enumeration and
// assembly, or that otherwise becomes inaccessible, is silently
// omitted rather than failing the whole scan. Callers that need a
// specific process's memory regions should call FetchOne for that PID.
func Scan() (Snapshot, error) {
	pids, err := procfs.EnumeratePIDs()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Processes: make([]ProcessInformation, 0, len(pids))}
	for _, pid := range pids {
		info, assembleErr := AssembleProcess(pid, false)
		if assembleErr != nil {
			continue
		}
		snap.Processes = append(snap.Processes, info)
	}
	return snap, nil
}
