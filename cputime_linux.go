//go:build linux

package memorymap

import (
	"time"

	"github.com/bestrauc/memory-map/procfs"
)

// ReadCPUTime reads and decodes the cumulative CPU time of pid from
// /proc/[pid]/stat.
func ReadCPUTime(pid uint64) (CPUTime, error) {
	rec, err := procfs.ReadStat(pid)
	if err != nil {
		return CPUTime{}, err
	}
	utime, stime, cutime, cstime, ticksErr := rec.SchedulingTicks()
	if ticksErr != nil {
		return CPUTime{}, ticksErr
	}
	clockTick := time.Duration(sysClockTick())
	return CPUTime{
		Utime: time.Duration(utime+cutime) * time.Second / clockTick,
		Stime: time.Duration(stime+cstime) * time.Second / clockTick,
	}, nil
}
