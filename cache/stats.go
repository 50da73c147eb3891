// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts the lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	// hit rate in permille at the last Snapshot
	lastRate atomic.Int32
}

// Hit records a hit.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records a miss.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// HitRate returns hits over lookups, 0 before any lookup.
func (s *Stats) HitRate() float64 {
	hit := s.hit.Load()
	lookups := hit + s.miss.Load()
	if lookups == 0 {
		return 0
	}
	return float64(hit) / float64(lookups)
}

// Snapshot returns the counters, and whether the hit rate moved by at least
// one permille since the previous snapshot.
func (s *Stats) Snapshot() (hit, miss int64, changed bool) {
	hit, miss = s.hit.Load(), s.miss.Load()
	rate := int32(0)
	if lookups := hit + miss; lookups > 0 {
		rate = int32(float64(hit) / float64(lookups) * 1000)
	}
	return hit, miss, s.lastRate.Swap(rate) != rate
}
