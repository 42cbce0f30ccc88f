// metrics.go - engine telemetry snapshot store

package main

import (
	"math"
	"sync/atomic"
)

// metricsSnapshot is a point-in-time copy of engine telemetry.
type metricsSnapshot struct {
	propagatingActive int
	standingActive    int
	droppedNotes      uint64
	peakLevel         float32
}

// metricsStore holds engine telemetry in atomics rather than behind a
// mutex: unlike the teacher's GUI-thread-only status store, this one is
// written from inside Engine.Process on every audio frame, and the driver
// must never lock.
type metricsStore struct {
	propagatingActive atomic.Int32
	standingActive    atomic.Int32
	droppedNotes      atomic.Uint64
	peakLevelBits     atomic.Uint32
}

func newMetricsStore() *metricsStore {
	return &metricsStore{}
}

func (s *metricsStore) incDropped() {
	s.droppedNotes.Add(1)
}

func (s *metricsStore) setOccupancy(propagatingActive, standingActive int) {
	s.propagatingActive.Store(int32(propagatingActive))
	s.standingActive.Store(int32(standingActive))
}

func (s *metricsStore) setPeakLevel(peak float32) {
	s.peakLevelBits.Store(math.Float32bits(peak))
}

func (s *metricsStore) snapshot() metricsSnapshot {
	return metricsSnapshot{
		propagatingActive: int(s.propagatingActive.Load()),
		standingActive:    int(s.standingActive.Load()),
		droppedNotes:      s.droppedNotes.Load(),
		peakLevel:         math.Float32frombits(s.peakLevelBits.Load()),
	}
}
