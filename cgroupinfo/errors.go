package cgroupinfo

import "errors"

// ErrCGroupsNotSupported names the condition of a platform (or
// container) with no cgroup mounts at all. No function in this package
// returns it: on such a host the stats queries fail with
// ErrSubsystemNotFound.
var ErrCGroupsNotSupported = errors.New("cgroupinfo: this host has no cgroup mounts")

// ErrSubsystemNotFound is returned when a process has no membership in
// the requested controller's hierarchy, which is normal for e.g. the
// "cpuacct" controller when it has been merged into "cpu" under a
// unified cgroup2 hierarchy.
var ErrSubsystemNotFound = errors.New("cgroupinfo: subsystem not found for this process")
