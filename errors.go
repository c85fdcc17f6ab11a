package memorymap

import "errors"

// ErrProducerStopped is a sentinel callers may use when logging a
// PollStopped result: Poll itself never returns an error, but
// PollStopped means the scanner's producer goroutine has exited
// (because Close was called) and there will be no further snapshots.
var ErrProducerStopped = errors.New("memorymap: scanner producer has stopped")

// ErrUnimplementedPlatform is returned by every /proc-reading entry
// point (AssembleProcess, Scan, FetchOne, ReadRSS, ReadMaxRSS,
// ReadCPUTime) on platforms other than Linux.
var ErrUnimplementedPlatform = errors.New("memorymap: unimplemented for this platform")
