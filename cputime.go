package memorymap

import "time"

// CPUTime is the cumulative user/system CPU time a process has
// consumed, including CPU time of children that have been wait(2)ed
// on (stat fields cutime/cstime are folded in, matching ps(1)).
type CPUTime struct {
	Utime time.Duration
	Stime time.Duration
}

// Sub subtracts other from c, returning a new CPUTime. Useful for
// computing the CPU time consumed between two polls of the same pid.
func (c CPUTime) Sub(other CPUTime) CPUTime {
	return CPUTime{
		Utime: c.Utime - other.Utime,
		Stime: c.Stime - other.Stime,
	}
}

// Add returns the sum of c and other.
func (c CPUTime) Add(other CPUTime) CPUTime {
	return CPUTime{
		Utime: c.Utime + other.Utime,
		Stime: c.Stime + other.Stime,
	}
}
