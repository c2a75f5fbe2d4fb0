// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"
	"maps"
	"sync"

	"github.com/gogpu/trace/gpucore"
)

// MemoryStats reports the device memory held by a line pipeline.
type MemoryStats struct {
	// TotalBytes is the budget.
	TotalBytes uint64

	// UsedBytes is the sum of live allocations.
	UsedBytes uint64

	// PeakBytes is the highest UsedBytes seen.
	PeakBytes uint64

	// Resources maps allocation names to their size in bytes.
	Resources map[string]uint64
}

// AvailableBytes is the room left in the budget.
func (s MemoryStats) AvailableBytes() uint64 {
	if s.UsedBytes >= s.TotalBytes {
		return 0
	}
	return s.TotalBytes - s.UsedBytes
}

// Utilization is UsedBytes over TotalBytes, 0 to 1.
func (s MemoryStats) Utilization() float64 {
	if s.TotalBytes == 0 {
		return 0
	}
	return float64(s.UsedBytes) / float64(s.TotalBytes)
}

// String returns a human-readable summary.
func (s MemoryStats) String() string {
	return fmt.Sprintf("Memory[%.1f%% used, %d/%d KB, %d resources]",
		s.Utilization()*100, s.UsedBytes/1024, s.TotalBytes/1024, len(s.Resources))
}

// memoryBudget accounts named allocations against a byte limit. Each name
// holds one allocation; setting it again replaces the previous size, which
// is how a grown vertex buffer or a resized target is charged.
type memoryBudget struct {
	mu        sync.Mutex
	limit     uint64
	used      uint64
	peak      uint64
	resources map[string]uint64
}

func newMemoryBudget(limit uint64) *memoryBudget {
	return &memoryBudget{limit: limit, resources: make(map[string]uint64)}
}

// check reports whether name can be resized to bytes within the budget.
func (m *memoryBudget) check(name string, bytes uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.used - m.resources[name] + bytes
	if next > m.limit {
		return fmt.Errorf("%w: %s needs %d bytes, %d of %d in use",
			gpucore.ErrMemoryBudget, name, bytes, m.used-m.resources[name], m.limit)
	}
	return nil
}

// set records name at bytes. Call it once the allocation succeeded.
func (m *memoryBudget) set(name string, bytes uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used = m.used - m.resources[name] + bytes
	m.resources[name] = bytes
	m.peak = max(m.peak, m.used)
}

// drop forgets name.
func (m *memoryBudget) drop(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used -= m.resources[name]
	delete(m.resources, name)
}

// reset forgets every allocation. The peak is kept.
func (m *memoryBudget) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.used = 0
	clear(m.resources)
}

func (m *memoryBudget) stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MemoryStats{
		TotalBytes: m.limit,
		UsedBytes:  m.used,
		PeakBytes:  m.peak,
		Resources:  maps.Clone(m.resources),
	}
}
