package memorymap

import (
	"sync"
	"time"
)

// Scanner polls Scan on a fixed period and hands the most recent
// Snapshot to whichever consumer calls Poll. It is a single-slot,
// most-recent-wins producer/consumer handoff: a Snapshot that is never
// collected is overwritten by the next tick rather than queued, so a
// slow consumer sees staleness instead of unbounded backlog.
type Scanner struct {
	period time.Duration
	slot   chan Snapshot
	stop   chan struct{}
	done   chan struct{}

	closeOnce sync.Once
}

// NewScanner starts a background goroutine that calls Scan every
// period and offers the result to Poll's single-capacity handoff
// channel. Scan errors are dropped silently on the floor: a transient
// failure to read /proc (e.g. during a fork storm) should not bring
// down the polling loop, and there is no ambient logger in this
// package for it to report through (see the CLI for that).
func NewScanner(period time.Duration) *Scanner {
	s := &Scanner{
		period: period,
		slot:   make(chan Snapshot, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Scanner) run() {
	defer close(s.done)
	t := time.NewTicker(s.period)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			snap, err := Scan()
			if err != nil {
				continue
			}
			s.offer(snap)
		}
	}
}

// offer replaces whatever Snapshot is currently sitting in the handoff
// slot with snap. A plain try-send would instead drop snap on a full
// channel; draining first means Poll always sees the newest scan, not
// whichever scan happened to win a race to fill the slot.
func (s *Scanner) offer(snap Snapshot) {
	select {
	case s.slot <- snap:
	default:
		select {
		case <-s.slot:
		default:
		}
		select {
		case s.slot <- snap:
		default:
		}
	}
}

// PollStatus describes the outcome of a non-blocking Poll call.
type PollStatus int

const (
	// PollNoData means the slot was empty: the producer is still
	// running but hasn't completed a scan since the last Poll.
	PollNoData PollStatus = iota
	// PollSnapshot means a Snapshot was waiting in the slot.
	PollSnapshot
	// PollStopped means the producer has been Closed and the slot is
	// drained; callers should stop polling.
	PollStopped
)

func (s PollStatus) String() string {
	switch s {
	case PollNoData:
		return "no-data"
	case PollSnapshot:
		return "snapshot"
	case PollStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Poll returns the most recent Snapshot not yet collected. It never
// blocks: if the slot is empty it returns immediately with either
// PollNoData (the producer is still running) or PollStopped (the
// producer has exited and there is nothing left to collect).
func (s *Scanner) Poll() (Snapshot, PollStatus) {
	select {
	case snap := <-s.slot:
		return snap, PollSnapshot
	default:
	}

	select {
	case <-s.done:
		return Snapshot{}, PollStopped
	default:
		return Snapshot{}, PollNoData
	}
}

// Close stops the background polling goroutine, waits for it to exit,
// and discards any Snapshot still pending in the slot, so Poll reports
// PollStopped from then on. Calling Close more than once is safe;
// subsequent calls are no-ops.
func (s *Scanner) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	select {
	case <-s.slot:
	default:
	}
}
