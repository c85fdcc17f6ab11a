package procfs

import "errors"

// ErrNotAccessible indicates that a /proc/[pid]/* file could not be
// opened (EACCES, or ENOENT from the process exiting between
// enumeration and read).
var ErrNotAccessible = errors.New("procfs: file not accessible")

// ErrMalformedStat indicates /proc/[pid]/stat did not yield 52 fields
// after comm-joining, or its state character is not recognized.
var ErrMalformedStat = errors.New("procfs: malformed stat record")

// ErrMalformedMaps indicates a /proc/[pid]/maps line had too few
// fields, a non-4-character permission field, or start >= end.
var ErrMalformedMaps = errors.New("procfs: malformed maps line")

// ErrPagemapIO indicates a seek or read error against
// /proc/[pid]/pagemap. It disables pagemap reads for the remainder of
// the current scan of that process; it does not fail the process
// record as a whole.
var ErrPagemapIO = errors.New("procfs: pagemap i/o error")
