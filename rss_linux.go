//go:build linux

package memorymap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bestrauc/memory-map/pparser"
	"github.com/bestrauc/memory-map/procfs"
)

// ReadRSS returns the current resident set size of pid, in bytes, read
// from /proc/[pid]/statm's second column (pages) and scaled by the
// host's page size.
func ReadRSS(pid uint64) (int64, error) {
	path := filepath.Join("/proc", strconv.FormatUint(pid, 10), "statm")
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", procfs.ErrNotAccessible, path, err)
	}

	fields := strings.SplitN(string(contents), " ", 7)
	if len(fields) < 2 {
		return 0, fmt.Errorf("unexpected number of fields in %s: %d", path, len(fields))
	}
	rssPages, parseErr := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if parseErr != nil {
		return 0, fmt.Errorf("failed to parse resident-page column of %s: %w", path, parseErr)
	}
	return rssPages * int64(os.Getpagesize()), nil
}

// procStatusHWM is the subset of /proc/[pid]/status this package
// needs; VmHWM is reported in kB, which maxRSSParser.Parse scales to
// bytes via its kB-suffix handling (see ReadMaxRSS).
type procStatusHWM struct {
	VMHWM         int64             `pparser:"VmHWM"`
	UnknownFields map[string]string `pparser:"skip,unknown"`
}

var maxRSSParser = pparser.NewLineKVFileParser(procStatusHWM{}, ":")

// ReadMaxRSS returns the high-water-mark resident set size of pid, in
// bytes, read from /proc/[pid]/status's VmHWM field.
func ReadMaxRSS(pid uint64) (int64, error) {
	path := filepath.Join("/proc", strconv.FormatUint(pid, 10), "status")
	contents, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %s", procfs.ErrNotAccessible, path, err)
	}
	var status procStatusHWM
	if parseErr := maxRSSParser.Parse(contents, &status); parseErr != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, parseErr)
	}
	// VmHWM is reported in kB (see proc(5)); the parser has already
	// multiplied it by 1024 on seeing the kB suffix.
	return status.VMHWM, nil
}
