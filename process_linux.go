//go:build linux

package memorymap

import (
	"github.com/bestrauc/memory-map/cgroupinfo"
	"github.com/bestrauc/memory-map/procfs"
)

// AssembleProcess reads /proc/[pid]/stat (always) and, when loadMapping
// is true, /proc/[pid]/maps and /proc/[pid]/pagemap, returning a fully
// populated ProcessInformation. A failure to read stat is fatal (the
// process is considered gone or inaccessible); a failure anywhere else,
// including the optional supplements, is recorded by leaving the
// corresponding Has* flag false rather than by failing the call.
func AssembleProcess(pid uint64, loadMapping bool) (ProcessInformation, error) {
	rec, err := procfs.ReadStat(pid)
	if err != nil {
		return ProcessInformation{}, err
	}

	info := ProcessInformation{
		PID:   rec.PID,
		Comm:  rec.Comm,
		State: rec.State,
	}

	if loadMapping {
		regions, mapsErr := procfs.ReadMaps(pid)
		if mapsErr == nil {
			if pagemap, pmErr := procfs.OpenPagemap(pid); pmErr == nil {
				_ = procfs.FillPhysicalMaps(pagemap, regions, PageSize)
				pagemap.Close()
			}
			info.Regions = regions
			info.HasRegions = true
		}
	}

	if rss, rssErr := ReadRSS(pid); rssErr == nil {
		info.RSS = rss
		info.HasRSS = true
	}
	if maxRSS, maxErr := ReadMaxRSS(pid); maxErr == nil {
		info.MaxRSS = maxRSS
		info.HasMaxRSS = true
	}
	if cpu, cpuErr := ReadCPUTime(pid); cpuErr == nil {
		info.CPUTime = cpu
		info.HasCPU = true
	}
	if cg, cgErr := cgroupinfo.ResolveProcessCGroup(int(pid)); cgErr == nil {
		info.CGroup = cg
		info.HasCGroup = true
	}

	return info, nil
}
