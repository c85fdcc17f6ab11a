//go:build linux

package memorymap

import "golang.org/x/sys/unix"

// HostPageSize queries the running kernel's page size via getpagesize(2).
// Callers that care about correctness on non-4KiB-page architectures
// (some arm64 and all ia64 configurations use 16KiB or larger) should
// assign its result to PageSize before scanning; the package default
// of 4096 is otherwise left untouched.
func HostPageSize() uint64 {
	return uint64(unix.Getpagesize())
}
