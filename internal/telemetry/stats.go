// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"sort"
	"sync"
	"time"
)

// =============================================================================
// TURN STATISTICS
// =============================================================================

// ModelStats aggregates turns answered by one model.
type ModelStats struct {
	Model     string
	Turns     int
	Fallbacks int
	Total     time.Duration
	Slowest   time.Duration
}

// Average returns the mean turn latency.
func (m ModelStats) Average() time.Duration {
	if m.Turns == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Turns)
}

// Stats records turn outcomes for the current run. Nothing is persisted.
type Stats struct {
	mu      sync.Mutex
	started time.Time
	models  map[string]*ModelStats
}

// NewStats creates an empty recorder.
func NewStats() *Stats {
	return &Stats{started: time.Now(), models: make(map[string]*ModelStats)}
}

// Record adds one turn. fallback marks turns answered with a fallback string.
func (s *Stats) Record(model string, fallback bool, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[model]
	if !ok {
		m = &ModelStats{Model: model}
		s.models[model] = m
	}
	m.Turns++
	if fallback {
		m.Fallbacks++
	}
	m.Total += d
	if d > m.Slowest {
		m.Slowest = d
	}
}

// Snapshot returns per-model stats sorted by turn count, then model ID.
func (s *Stats) Snapshot() []ModelStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ModelStats, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Turns != out[j].Turns {
			return out[i].Turns > out[j].Turns
		}
		return out[i].Model < out[j].Model
	})
	return out
}

// Turns returns the total number of recorded turns.
func (s *Stats) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.models {
		n += m.Turns
	}
	return n
}

// Uptime returns time since the recorder was created.
func (s *Stats) Uptime() time.Duration {
	return time.Since(s.started)
}
