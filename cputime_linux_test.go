//go:build linux

package memorymap

import (
	"os"
	"testing"
)

func TestReadCPUTimeSelf(t *testing.T) {
	ct, err := ReadCPUTime(uint64(os.Getpid()))
	if err != nil {
		t.Fatalf("ReadCPUTime(self): %v", err)
	}
	if ct.Utime < 0 || ct.Stime < 0 {
		t.Errorf("want non-negative CPU time, got %+v", ct)
	}
}

func TestReadCPUTimeUnknownPID(t *testing.T) {
	// PID 0 never refers to a real process from userspace.
	if _, err := ReadCPUTime(0); err == nil {
		t.Error("want error reading stat for pid 0, got nil")
	}
}

func TestCPUTimeSubAdd(t *testing.T) {
	a := CPUTime{Utime: 10, Stime: 20}
	b := CPUTime{Utime: 3, Stime: 4}

	if got, want := a.Sub(b), (CPUTime{Utime: 7, Stime: 16}); got != want {
		t.Errorf("Sub: want %+v, got %+v", want, got)
	}
	if got, want := a.Add(b), (CPUTime{Utime: 13, Stime: 24}); got != want {
		t.Errorf("Add: want %+v, got %+v", want, got)
	}
}
