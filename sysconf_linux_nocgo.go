//go:build linux && !cgo
// +build linux,!cgo

package memorymap

func sysClockTick() int64 {
	// Reflecting the kernel default for USER_HZ.
	const defaultClockTick = int64(100)
	return defaultClockTick
}
