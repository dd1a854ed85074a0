// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/stakepool/co"
	"github.com/vechain/stakepool/pubkey"
)

// lockTable grants account locks to transactions. A transaction gets its
// whole lock set at once or waits; writers are exclusive, readers shared.
type lockTable struct {
	mu      sync.Mutex
	writers map[pubkey.Key]struct{}
	readers map[pubkey.Key]int
	release co.Signal
}

func newLockTable() *lockTable {
	return &lockTable{
		writers: make(map[pubkey.Key]struct{}),
		readers: make(map[pubkey.Key]int),
	}
}

// lockSet is the keys a transaction locks.
type lockSet struct {
	writable []pubkey.Key
	readonly []pubkey.Key
}

func (lt *lockTable) available(ls *lockSet) bool {
	for _, k := range ls.writable {
		if _, ok := lt.writers[k]; ok {
			return false
		}
		if lt.readers[k] > 0 {
			return false
		}
	}
	for _, k := range ls.readonly {
		if _, ok := lt.writers[k]; ok {
			return false
		}
	}
	return true
}

// acquire blocks until every lock in ls is granted or ctx is done.
// It returns the time spent waiting.
func (lt *lockTable) acquire(ctx context.Context, ls *lockSet) (time.Duration, error) {
	start := time.Now()
	for {
		lt.mu.Lock()
		if lt.available(ls) {
			for _, k := range ls.writable {
				lt.writers[k] = struct{}{}
			}
			for _, k := range ls.readonly {
				lt.readers[k]++
			}
			lt.mu.Unlock()
			return time.Since(start), nil
		}
		// take the waiter before unlocking so a release in between is not missed
		w := lt.release.NewWaiter()
		lt.mu.Unlock()

		if err := co.Wait(ctx, w); err != nil {
			return time.Since(start), err
		}
	}
}

func (lt *lockTable) unlock(ls *lockSet) {
	lt.mu.Lock()
	for _, k := range ls.writable {
		delete(lt.writers, k)
	}
	for _, k := range ls.readonly {
		if n := lt.readers[k]; n <= 1 {
			delete(lt.readers, k)
		} else {
			lt.readers[k] = n - 1
		}
	}
	lt.mu.Unlock()
	lt.release.Broadcast()
}
