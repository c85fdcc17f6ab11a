package procfs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadStat reads and parses /proc/[pid]/stat.
func ReadStat(pid uint64) (StatRecord, error) {
	path := filepath.Join(procRoot, strconv.FormatUint(pid, 10), "stat")
	contents, err := os.ReadFile(path)
	if err != nil {
		return StatRecord{}, fmt.Errorf("%w: %s: %s", ErrNotAccessible, path, err)
	}
	return ParseStat(contents)
}

// ReadMaps reads and parses every line of /proc/[pid]/maps, in file
// order. A line that fails to parse is skipped; it does not abort the
// remainder of the region list.
func ReadMaps(pid uint64) ([]MemoryRegion, error) {
	path := filepath.Join(procRoot, strconv.FormatUint(pid, 10), "maps")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotAccessible, path, err)
	}
	defer f.Close()

	contents, readErr := io.ReadAll(f)
	if readErr != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotAccessible, path, readErr)
	}
	return ParseMapsLines(string(contents)), nil
}

// ParseMapsLines parses the full textual contents of a maps file,
// skipping any individual line that fails to parse.
func ParseMapsLines(contents string) []MemoryRegion {
	var regions []MemoryRegion
	for _, line := range strings.Split(contents, "\n") {
		if len(line) == 0 {
			continue
		}
		region, parseErr := ParseMapsLine(line)
		if parseErr != nil {
			continue
		}
		regions = append(regions, region)
	}
	return regions
}

// OpenPagemap opens /proc/[pid]/pagemap. Callers should expect EACCES
// on systems without CAP_SYS_ADMIN; that is expected, not fatal.
func OpenPagemap(pid uint64) (*os.File, error) {
	path := filepath.Join(procRoot, strconv.FormatUint(pid, 10), "pagemap")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotAccessible, path, err)
	}
	return f, nil
}

// FillPhysicalMaps attaches a PhysicalMap to every region it can,
// using a single open pagemap handle. If a read fails partway
// through, the error is returned, the remaining regions are left
// without physical data, and the caller is expected to stop issuing
// further pagemap reads for the rest of this scan.
func FillPhysicalMaps(pagemap *os.File, regions []MemoryRegion, pageSize uint64) error {
	for i := range regions {
		pm, err := MapRegionPages(pagemap, regions[i], pageSize)
		if err != nil {
			return err
		}
		regions[i].PageFrames = pm
		regions[i].HasPageFrames = true
	}
	return nil
}
