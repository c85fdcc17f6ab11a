//go:build linux

package memorymap

import (
	"os"
	"testing"
)

func TestAssembleProcessSelfMetadataOnly(t *testing.T) {
	info, err := AssembleProcess(uint64(os.Getpid()), false)
	if err != nil {
		t.Fatalf("AssembleProcess(self, false): %v", err)
	}
	if info.PID != uint64(os.Getpid()) {
		t.Errorf("want PID %d, got %d", os.Getpid(), info.PID)
	}
	if info.HasRegions {
		t.Error("metadata-only assembly should not populate Regions")
	}
}

func TestAssembleProcessSelfFull(t *testing.T) {
	info, err := FetchOne(uint64(os.Getpid()))
	if err != nil {
		t.Fatalf("FetchOne(self): %v", err)
	}
	if !info.HasRegions {
		t.Fatal("full assembly of self should populate Regions")
	}
	if len(info.Regions) == 0 {
		t.Error("want at least one mapped region for the running test binary")
	}
}

func TestAssembleProcessNonexistent(t *testing.T) {
	// A PID this large is astronomically unlikely to be live; stat
	// read should fail with NotAccessible.
	if _, err := AssembleProcess(1<<31, false); err == nil {
		t.Error("want error assembling a nonexistent pid, got nil")
	}
}

func TestScan(t *testing.T) {
	snap, err := Scan()
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(snap.Processes) == 0 {
		t.Error("want at least one process in a scan of a live system")
	}

	var sawSelf bool
	for _, p := range snap.Processes {
		if p.PID == uint64(os.Getpid()) {
			sawSelf = true
		}
	}
	if !sawSelf {
		t.Error("want the running test process in its own scan")
	}
}
