package cgroupinfo

// ProcessCGroupSummary is the cgroup membership of a single process:
// every hierarchy it belongs to, in /proc/[pid]/cgroup order.
// Subsystems indexes them by controller name.
type ProcessCGroupSummary struct {
	Hierarchies []CGProcHierarchy
}

// ResolveProcessCGroup reads /proc/[pid]/cgroup and returns the
// process's membership across every hierarchy. It does not touch
// mountinfo or resolve filesystem paths; use PIDSubsystemPath for that.
func ResolveProcessCGroup(pid int) (ProcessCGroupSummary, error) {
	hierarchies, err := PidCGSubsystems(pid)
	if err != nil {
		return ProcessCGroupSummary{}, err
	}
	return ProcessCGroupSummary{Hierarchies: hierarchies}, nil
}

// Subsystems indexes the summary's hierarchies by controller name, the
// way MapSubsystems does for a raw hierarchy slice.
func (s ProcessCGroupSummary) Subsystems() map[string]*CGProcHierarchy {
	return MapSubsystems(s.Hierarchies)
}
