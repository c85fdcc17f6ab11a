package procfs

import (
	"fmt"
	"strconv"
	"strings"
)

// statFieldCount is the number of whitespace-separated fields a
// well-formed /proc/[pid]/stat record has once comm has been joined
// and its brackets stripped down to a single token.
const statFieldCount = 52

// StatRecord is the decoded form of /proc/[pid]/stat: its PID, comm
// (the bracketed second field, interior whitespace and parens
// preserved, outer brackets stripped), and scheduler state. The raw,
// re-tokenized field list is kept for callers (the CPU-time
// supplement) that need fields beyond these three.
type StatRecord struct {
	PID    uint64
	Comm   string
	State  ProcessState
	Fields []string // all 52 fields, Fields[1] is the unwrapped comm
}

// ParseStat parses the entire contents of /proc/[pid]/stat.
//
// The kernel does not escape comm, so a naive whitespace split is
// unsafe: comm may itself contain spaces and even closing parens. This
// absorbs tokens starting at index 1 until one ends in ')', then
// strips exactly one leading '(' and one trailing ')' from the
// rejoined token.
func ParseStat(contents []byte) (StatRecord, error) {
	fields := strings.Fields(string(contents))
	if len(fields) < 2 {
		return StatRecord{}, fmt.Errorf("%w: only %d fields present", ErrMalformedStat, len(fields))
	}

	commEnd := 1
	for commEnd < len(fields) && !strings.HasSuffix(fields[commEnd], ")") {
		commEnd++
	}
	if commEnd >= len(fields) {
		return StatRecord{}, fmt.Errorf("%w: comm field never terminates with ')'", ErrMalformedStat)
	}

	joinedComm := strings.Join(fields[1:commEnd+1], " ")
	rest := append([]string{fields[0], joinedComm}, fields[commEnd+1:]...)

	if len(joinedComm) < 2 || joinedComm[0] != '(' || joinedComm[len(joinedComm)-1] != ')' {
		return StatRecord{}, fmt.Errorf("%w: comm field %q missing outer parens", ErrMalformedStat, joinedComm)
	}
	rest[1] = joinedComm[1 : len(joinedComm)-1]

	if len(rest) != statFieldCount {
		return StatRecord{}, fmt.Errorf("%w: expected %d fields after comm-joining, got %d",
			ErrMalformedStat, statFieldCount, len(rest))
	}

	pid, pidErr := strconv.ParseUint(rest[0], 10, 64)
	if pidErr != nil {
		return StatRecord{}, fmt.Errorf("%w: bad pid field %q: %s", ErrMalformedStat, rest[0], pidErr)
	}

	if len(rest[2]) == 0 {
		return StatRecord{}, fmt.Errorf("%w: empty state field", ErrMalformedStat)
	}
	state, stateErr := ParseProcessState(rest[2][0])
	if stateErr != nil {
		return StatRecord{}, stateErr
	}

	return StatRecord{
		PID:    pid,
		Comm:   rest[1],
		State:  state,
		Fields: rest,
	}, nil
}

// stat(5) field indices (0-based, post comm-joining) for the clock-tick
// scheduling counters used by the CPU-time supplement.
const (
	statFieldUtime  = 13
	statFieldStime  = 14
	statFieldCutime = 15
	statFieldCstime = 16
)

// SchedulingTicks returns the raw utime/stime/cutime/cstime clock-tick
// counters (fields 14-17 of stat(5), 0-indexed 13-16) from an already
// parsed StatRecord.
func (s StatRecord) SchedulingTicks() (utime, stime, cutime, cstime int64, err error) {
	get := func(idx int, name string) (int64, error) {
		v, parseErr := strconv.ParseInt(s.Fields[idx], 10, 64)
		if parseErr != nil {
			return 0, fmt.Errorf("%w: failed to parse %s column: %s", ErrMalformedStat, name, parseErr)
		}
		return v, nil
	}
	if utime, err = get(statFieldUtime, "utime"); err != nil {
		return
	}
	if stime, err = get(statFieldStime, "stime"); err != nil {
		return
	}
	if cutime, err = get(statFieldCutime, "cutime"); err != nil {
		return
	}
	cstime, err = get(statFieldCstime, "cstime")
	return
}
