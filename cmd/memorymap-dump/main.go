// Command memorymap-dump is a thin demonstration CLI around the
// memorymap library: it either dumps one process's memory map or
// polls the whole host on a fixed period, printing a one-line summary
// per tick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bestrauc/memory-map"
	"github.com/bestrauc/memory-map/cgroupinfo"
	"github.com/bestrauc/memory-map/procfs"
)

var log = logrus.New()

type opts struct {
	pid       int64
	period    time.Duration
	noPagemap bool
	cgroup    bool
}

func main() {
	memorymap.PageSize = memorymap.HostPageSize()

	var o opts

	root := &cobra.Command{
		Use:   "memorymap-dump",
		Short: "Inspect process memory maps via /proc",
		Long: `memorymap-dump enumerates /proc and reconstructs, for each process,
its virtual memory regions and (when permitted) their physical page-frame
backing. Pass --pid to dump a single process; otherwise it polls the
whole host every --period and prints one summary line per tick.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), o)
		},
	}

	root.Flags().Int64Var(&o.pid, "pid", 0, "dump a single PID instead of polling the whole host")
	root.Flags().DurationVar(&o.period, "period", 2*time.Second, "polling interval when --pid is not set")
	root.Flags().BoolVar(&o.noPagemap, "no-pagemap", false, "skip /proc/[pid]/pagemap reads (maps only, no physical backing)")
	root.Flags().BoolVar(&o.cgroup, "cgroup", false, "with --no-pagemap, also resolve and print cgroup membership (a full fetch always includes it; limits are not printed)")

	if err := root.Execute(); err != nil {
		log.WithError(err).Fatal("memorymap-dump failed")
	}
}

func run(ctx context.Context, o opts) error {
	if o.pid != 0 {
		return dumpOne(uint64(o.pid), o)
	}
	return pollHost(ctx, o)
}

func dumpOne(pid uint64, o opts) error {
	info, err := fetchProcess(pid, o)
	if err != nil {
		return fmt.Errorf("fetching pid %d: %w", pid, err)
	}

	fmt.Printf("pid=%d comm=%q state=%s\n", info.PID, info.Comm, info.State)
	if info.HasCPU {
		fmt.Printf("  cpu: utime=%s stime=%s\n", info.CPUTime.Utime, info.CPUTime.Stime)
	}
	if info.HasRSS {
		fmt.Printf("  rss: %d bytes (max %d)\n", info.RSS, info.MaxRSS)
	}
	if info.HasCGroup {
		for _, h := range info.CGroup.Hierarchies {
			fmt.Printf("  cgroup[%d]: %v -> %s\n", h.HierarchyID, h.Subsystems, h.Path)
		}
	}
	if info.HasRegions {
		fmt.Printf("  %d mapped regions:\n", len(info.Regions))
		for _, r := range info.Regions {
			pathname := "[anon]"
			if r.HasPath {
				pathname = r.Pathname
			}
			line := fmt.Sprintf("    %012x-%012x %s %s", r.VStart, r.VEnd, r.Permissions, pathname)
			if r.HasPageFrames {
				line += fmt.Sprintf(" (%d resident runs)", len(r.PageFrames))
			}
			fmt.Println(line)
		}
	}
	return nil
}

// fetchProcess assembles a ProcessInformation the way memorymap.FetchOne
// does, except that --no-pagemap drops straight to the procfs
// primitives so the pagemap read is skipped entirely rather than
// merely discarded after the fact. That path reads only stat and maps:
// RSS, MaxRSS and CPU time stay unset, and cgroup membership is
// attached only when --cgroup is set.
func fetchProcess(pid uint64, o opts) (memorymap.ProcessInformation, error) {
	if !o.noPagemap {
		info, err := memorymap.FetchOne(pid)
		if err != nil {
			return info, err
		}
		if o.cgroup {
			attachCGroup(&info, pid)
		}
		return info, nil
	}

	rec, err := procfs.ReadStat(pid)
	if err != nil {
		return memorymap.ProcessInformation{}, err
	}
	regions, mapsErr := procfs.ReadMaps(pid)
	info := memorymap.ProcessInformation{
		PID:        rec.PID,
		Comm:       rec.Comm,
		State:      rec.State,
		Regions:    regions,
		HasRegions: mapsErr == nil,
	}
	if o.cgroup {
		attachCGroup(&info, pid)
	}
	return info, nil
}

func attachCGroup(info *memorymap.ProcessInformation, pid uint64) {
	cg, err := cgroupinfo.ResolveProcessCGroup(int(pid))
	if err != nil {
		log.WithError(err).WithField("pid", pid).Debug("cgroup resolution unavailable")
		return
	}
	info.CGroup = cg
	info.HasCGroup = true
}

// pollHost drives Scanner.Poll, which never blocks, so the loop paces
// itself against a short ticker rather than the scan period; any tick
// that finds the slot still empty just tries again on the next one.
func pollHost(ctx context.Context, o opts) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scanner := memorymap.NewScanner(o.period)
	defer scanner.Close()

	tick := time.NewTicker(o.period / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}

		snap, status := scanner.Poll()
		switch status {
		case memorymap.PollStopped:
			log.WithError(memorymap.ErrProducerStopped).Info("stopping poll loop")
			return nil
		case memorymap.PollNoData:
			continue
		}

		// Scan runs in metadata-only mode (no maps/pagemap walk), so
		// the only per-process field worth summarizing here is RSS.
		var withRSS int
		var totalRSS int64
		for _, p := range snap.Processes {
			if p.HasRSS {
				withRSS++
				totalRSS += p.RSS
			}
		}
		log.WithFields(logrus.Fields{
			"processes": len(snap.Processes),
			"with_rss":  withRSS,
			"total_rss": totalRSS,
		}).Info("scan complete")
	}
}
