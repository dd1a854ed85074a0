// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	// totals at the last Snapshot
	lastHit, lastMiss atomic.Int64
}

// Hit records a hit.
func (cs *Stats) Hit() int64 { return cs.hit.Add(1) }

// Miss records a miss.
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Totals returns all hits and misses recorded so far.
func (cs *Stats) Totals() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// Snapshot is the activity of a cache between two Snapshot calls.
type Snapshot struct {
	Hit, Miss int64
}

// HitRate returns hits per thousand lookups, 0 when idle.
func (s Snapshot) HitRate() int64 {
	if s.Hit+s.Miss == 0 {
		return 0
	}
	return s.Hit * 1000 / (s.Hit + s.Miss)
}

// Snapshot returns hits and misses recorded since the previous call.
func (cs *Stats) Snapshot() Snapshot {
	hit, miss := cs.hit.Load(), cs.miss.Load()
	return Snapshot{
		Hit:  hit - cs.lastHit.Swap(hit),
		Miss: miss - cs.lastMiss.Swap(miss),
	}
}
