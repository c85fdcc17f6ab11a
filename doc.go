// Package memorymap enumerates the processes visible on a Linux host
// and reconstructs, for each, a compact description of its virtual
// address space together with — when permitted — the physical
// page-frame backing of each virtual page.
//
// It is the data-plane library behind a process inspector: a GUI or
// CLI embeds a Scanner and polls it periodically. The low-level /proc
// decoding (stat, maps, pagemap) lives in the procfs subpackage;
// this package assembles that decoding into Snapshots and drives the
// bounded-handoff polling loop implemented by Scanner.
package memorymap

// PageSize is the host's page size in bytes, used to translate
// between byte offsets and pagemap indices. Page-size discovery is an
// injected constant rather than a library concern; callers on
// platforms other than the nominal 4KiB should override it (see
// HostPageSize) before constructing a Scanner.
var PageSize uint64 = 4096
