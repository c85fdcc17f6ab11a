//go:build !linux

package memorymap

// This package decodes Linux-specific pseudo-files (/proc/[pid]/stat,
// maps, pagemap); there is no non-Linux equivalent to fall back to, so
// every entry point simply reports itself unimplemented.

func AssembleProcess(pid uint64, loadMapping bool) (ProcessInformation, error) {
	return ProcessInformation{}, ErrUnimplementedPlatform
}

func Scan() (Snapshot, error) {
	return Snapshot{}, ErrUnimplementedPlatform
}

func FetchOne(pid uint64) (ProcessInformation, error) {
	return ProcessInformation{}, ErrUnimplementedPlatform
}

func ReadRSS(pid uint64) (int64, error) {
	return 0, ErrUnimplementedPlatform
}

func ReadMaxRSS(pid uint64) (int64, error) {
	return 0, ErrUnimplementedPlatform
}

func ReadCPUTime(pid uint64) (CPUTime, error) {
	return CPUTime{}, ErrUnimplementedPlatform
}
