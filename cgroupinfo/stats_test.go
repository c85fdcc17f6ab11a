//go:build linux

package cgroupinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadCFSLimit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupCFSQuotaFile), []byte("50000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupCFSPeriodFile), []byte("100000\n"), 0o644))

	limit, err := readCFSLimit(dir)
	require.NoError(t, err)
	require.InDelta(t, 0.5, limit, 1e-9)
}

func TestReadCFSLimitUnlimited(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupCFSQuotaFile), []byte("-1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupCFSPeriodFile), []byte("100000\n"), 0o644))

	limit, err := readCFSLimit(dir)
	require.NoError(t, err)
	require.Equal(t, 0.0, limit)
}

func TestReadMemoryOOMKills(t *testing.T) {
	dir := t.TempDir()
	contents := "oom_kill_disable 0\nunder_oom 0\noom_kill 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, cgroupMemOOMControl), []byte(contents), 0o644))

	kills, err := readMemoryOOMKills(dir)
	require.NoError(t, err)
	require.Equal(t, int64(3), kills)
}

func TestReadMemoryOOMKillsMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := readMemoryOOMKills(dir)
	require.Error(t, err)
}
