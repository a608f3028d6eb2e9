package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/rileyhilliard/pulse/internal/host"
	"github.com/rileyhilliard/pulse/internal/logger"
)

// NetworkSource turns cumulative byte counters into throughput.
//
// It starts Cold. The first successful read stores a baseline and reports
// zero rates without touching history; every later read reports the rate
// over the interval since the previous read and appends it to history.
type NetworkSource struct {
	stats host.NetStats
	clock host.Clock
	log   logger.Logger

	mu       sync.Mutex
	warm     bool
	prev     host.NetCounters
	prevTime time.Time
	down     *RollingHistory
	up       *RollingHistory
}

// NewNetworkSource creates a cold network source with zero-filled histories
// of historyLen entries.
func NewNetworkSource(stats host.NetStats, clock host.Clock, historyLen int, log logger.Logger) *NetworkSource {
	if clock == nil {
		clock = host.SystemClock{}
	}
	return &NetworkSource{
		stats: stats,
		clock: clock,
		log:   logger.OrNoop(log),
		down:  NewRollingHistory(historyLen),
		up:    NewRollingHistory(historyLen),
	}
}

// Sample reads the counters and returns the current rates. A read failure
// returns an unavailable reading and leaves the baseline unchanged.
func (s *NetworkSource) Sample(ctx context.Context) NetworkReading {
	counters, err := s.stats.NetCounters(ctx)
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.log.Debug("network counter read failed: %v", err)
		return s.unavailableLocked()
	}

	if !s.warm {
		s.warm = true
		s.prev = counters
		s.prevTime = now
		return s.readingLocked(0, 0)
	}

	elapsed := now.Sub(s.prevTime).Seconds()
	if elapsed <= 0 {
		elapsed = 1
	}

	downBps := float64(counterDelta(counters.BytesRecv, s.prev.BytesRecv)) / elapsed
	upBps := float64(counterDelta(counters.BytesSent, s.prev.BytesSent)) / elapsed

	s.prev = counters
	s.prevTime = now
	s.down.Push(downBps)
	s.up.Push(upBps)

	return s.readingLocked(downBps, upBps)
}

// Unavailable returns an unavailable reading carrying the current histories.
func (s *NetworkSource) Unavailable() NetworkReading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unavailableLocked()
}

// Warm reports whether a baseline has been captured.
func (s *NetworkSource) Warm() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warm
}

func (s *NetworkSource) readingLocked(downBps, upBps float64) NetworkReading {
	return NetworkReading{
		DownloadBps:     downBps,
		UploadBps:       upBps,
		DownloadHuman:   FormatRate(downBps),
		UploadHuman:     FormatRate(upBps),
		DownloadHistory: s.down.Values(),
		UploadHistory:   s.up.Values(),
		Available:       true,
	}
}

func (s *NetworkSource) unavailableLocked() NetworkReading {
	return NetworkReading{
		DownloadHuman:   Unavailable,
		UploadHuman:     Unavailable,
		DownloadHistory: s.down.Values(),
		UploadHistory:   s.up.Values(),
	}
}

// counterDelta returns now-prev, or 0 if the counter went backwards
// (interface reset or wraparound).
func counterDelta(now, prev uint64) uint64 {
	if now < prev {
		return 0
	}
	return now - prev
}
