//go:build linux

package cgroupinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/opencontainers/runc/libcontainer/cgroups"
	"github.com/opencontainers/runc/libcontainer/cgroups/fs"

	"github.com/bestrauc/memory-map/pparser"
)

const (
	cgroupCFSQuotaFile  = "cpu.cfs_quota_us"
	cgroupCFSPeriodFile = "cpu.cfs_period_us"
	cgroupMemLimitFile  = "memory.limit_in_bytes"
	cgroupMemOOMControl = "memory.oom_control"
)

// MemoryStats is a target process's cgroup memory accounting: usage,
// limit, and OOM-kill count. LimitBytes and UsageBytes are the values
// the controller reports (an unlimited cgroup reports a very large
// limit, not -1); OOMKills is -1 when memory.oom_control cannot be
// read or parsed.
type MemoryStats struct {
	LimitBytes int64
	UsageBytes int64
	OOMKills   int64
}

// CPUStats is a target process's cgroup CPU accounting: the CFS quota
// expressed as a fraction of a core (0 means unlimited), and cumulative
// usage/throttling.
type CPUStats struct {
	Limit         float64
	Usage         time.Duration
	ThrottledTime time.Duration
}

// QueryMemoryStats resolves pid's memory cgroup and reads its current
// usage, limit, and OOM-kill count.
func QueryMemoryStats(pid int) (MemoryStats, error) {
	memPath, pathErr := PIDSubsystemPath(pid, "memory")
	if pathErr != nil {
		return MemoryStats{}, fmt.Errorf("%w: %s", ErrSubsystemNotFound, pathErr)
	}

	mg := fs.MemoryGroup{}
	st := cgroups.NewStats()
	if err := mg.GetStats(memPath.AbsPath, st); err != nil {
		return MemoryStats{}, fmt.Errorf("failed to query memory stats at %s: %w", memPath.AbsPath, err)
	}

	ooms, oomErr := readMemoryOOMKills(memPath.AbsPath)
	if oomErr != nil {
		// cgroup2 hosts expose the OOM-kill count under a different
		// file entirely; report -1 rather than failing the whole query.
		// (Kernels before 4.13 have no oom_kill line in oom_control;
		// that file still parses and reports 0.)
		ooms = -1
	}

	return MemoryStats{
		LimitBytes: int64(st.MemoryStats.Usage.Limit),
		UsageBytes: int64(st.MemoryStats.Usage.Usage),
		OOMKills:   ooms,
	}, nil
}

type memOOMControl struct {
	OomKillDisable int64            `pparser:"oom_kill_disable"`
	UnderOom       int64            `pparser:"under_oom"`
	OomKill        int64            `pparser:"oom_kill"`
	UnknownFields  map[string]int64 `pparser:"skip,unknown"`
}

var memOOMControlParser = pparser.NewLineKVFileParser(memOOMControl{}, " ")

func readMemoryOOMKills(memCGPath string) (int64, error) {
	path := filepath.Join(memCGPath, cgroupMemOOMControl)
	contents, readErr := os.ReadFile(path)
	if readErr != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, readErr)
	}
	var oomc memOOMControl
	if err := memOOMControlParser.Parse(contents, &oomc); err != nil {
		return 0, err
	}
	return oomc.OomKill, nil
}

// QueryCPUStats resolves pid's cpu and cpuacct cgroups and reads the
// CFS quota/period and accumulated usage/throttling.
func QueryCPUStats(pid int) (CPUStats, error) {
	cpuPath, pathErr := PIDSubsystemPath(pid, "cpu")
	if pathErr != nil {
		return CPUStats{}, fmt.Errorf("%w: %s", ErrSubsystemNotFound, pathErr)
	}

	limit, limitErr := readCFSLimit(cpuPath.AbsPath)
	if limitErr != nil {
		limit = 0
	}

	cg := fs.CpuGroup{}
	st := cgroups.NewStats()
	if err := cg.GetStats(cpuPath.AbsPath, st); err != nil {
		return CPUStats{}, fmt.Errorf("failed to query cpu stats at %s: %w", cpuPath.AbsPath, err)
	}

	cs := CPUStats{
		Limit:         limit,
		Usage:         time.Duration(st.CpuStats.CpuUsage.TotalUsage) * time.Nanosecond,
		ThrottledTime: time.Duration(st.CpuStats.ThrottlingData.ThrottledTime) * time.Nanosecond,
	}

	if acctPath, acctErr := PIDSubsystemPath(pid, "cpuacct"); acctErr == nil {
		cag := fs.CpuacctGroup{}
		if err := cag.GetStats(acctPath.AbsPath, st); err == nil {
			cs.Usage = time.Duration(st.CpuStats.CpuUsage.TotalUsage) * time.Nanosecond
		}
	}

	return cs, nil
}

func readCFSLimit(cpuCGPath string) (float64, error) {
	quotaStr, quotaErr := os.ReadFile(filepath.Join(cpuCGPath, cgroupCFSQuotaFile))
	if quotaErr != nil {
		return 0, fmt.Errorf("failed to read cfs quota: %w", quotaErr)
	}
	periodStr, periodErr := os.ReadFile(filepath.Join(cpuCGPath, cgroupCFSPeriodFile))
	if periodErr != nil {
		return 0, fmt.Errorf("failed to read cfs period: %w", periodErr)
	}

	quota, quotaParseErr := strconv.Atoi(strings.TrimSpace(string(quotaStr)))
	if quotaParseErr != nil {
		return 0, fmt.Errorf("failed to parse cfs quota %q: %w", quotaStr, quotaParseErr)
	}
	period, periodParseErr := strconv.Atoi(strings.TrimSpace(string(periodStr)))
	if periodParseErr != nil {
		return 0, fmt.Errorf("failed to parse cfs period %q: %w", periodStr, periodParseErr)
	}

	if period <= 0 || quota <= 0 {
		return 0, nil
	}
	return float64(quota) / float64(period), nil
}

// MemoryLimitBytes is a convenience accessor used by callers that only
// care about the configured limit, not current usage.
func MemoryLimitBytes(pid int) (int64, error) {
	memPath, pathErr := PIDSubsystemPath(pid, "memory")
	if pathErr != nil {
		return -1, fmt.Errorf("%w: %s", ErrSubsystemNotFound, pathErr)
	}
	limitFilePath := filepath.Join(memPath.AbsPath, cgroupMemLimitFile)
	contents, readErr := os.ReadFile(limitFilePath)
	if readErr != nil {
		return -1, fmt.Errorf("failed to read %s: %w", limitFilePath, readErr)
	}
	limit, parseErr := strconv.ParseInt(strings.TrimSpace(string(contents)), 10, 64)
	if parseErr != nil {
		return -1, fmt.Errorf("failed to parse %s: %w", limitFilePath, parseErr)
	}
	return limit, nil
}
