// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/qianbin/directcache"

	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pubkey"
)

var logger = log.WithContext("pkg", "ledger")

// account blobs are stored under this bucket, keyed by account key.
var accountBucket = kv.Bucket("a")

// Stater creates states over a kv store and commits them back.
// It keeps recently used account blobs in a directcache.
type Stater struct {
	store kv.Store
	blobs *directcache.Cache
	lock  sync.RWMutex // serializes commits against cache fills

	stats       cache.Stats
	lastLogTime atomic.Int64
}

// NewStater create a new stater with a blob cache of cacheSizeMB megabytes.
func NewStater(store kv.Store, cacheSizeMB int) *Stater {
	if cacheSizeMB < 1 {
		cacheSizeMB = 1
	}
	s := &Stater{
		store: store,
		blobs: directcache.New(cacheSizeMB * 1024 * 1024),
	}
	s.lastLogTime.Store(time.Now().UnixNano())
	return s
}

// NewState create a new state object reading committed accounts.
func (s *Stater) NewState() *State {
	return newState(s.loadAccount)
}

// GetAccount reads a committed account.
func (s *Stater) GetAccount(key pubkey.Key) (*Account, error) {
	acc, err := s.loadAccount(key)
	if err != nil {
		return nil, &Error{err}
	}
	return acc, nil
}

func (s *Stater) loadAccount(key pubkey.Key) (*Account, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var blob []byte
	if s.blobs.AdvGet(key[:], func(val []byte) {
		blob = bytes.Clone(val)
	}, false) {
		s.stats.Hit()
		s.logStats()
		return loadAccount(blob)
	}
	s.stats.Miss()
	s.logStats()

	blob, err := accountBucket.NewGetter(s.store).Get(key[:])
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, errors.Wrap(err, "get account")
		}
		blob = nil
	}
	// empty blobs are cached too, as known-missing accounts
	_ = s.blobs.Set(key[:], blob)
	return loadAccount(blob)
}

// Commit writes every account changed in st in one batch.
func (s *Stater) Commit(st *State) error {
	changes := st.Changes()
	if len(changes) == 0 {
		return nil
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	bulk := accountBucket.NewBulk(s.store.Bulk())
	blobs := make(map[pubkey.Key][]byte, len(changes))
	for key, acc := range changes {
		blob, err := saveAccount(acc)
		if err != nil {
			return &Error{errors.Wrap(err, "encode account")}
		}
		if len(blob) == 0 {
			if err := bulk.Delete(key[:]); err != nil {
				return &Error{err}
			}
		} else if err := bulk.Put(key[:], blob); err != nil {
			return &Error{err}
		}
		blobs[key] = blob
	}
	if err := bulk.Write(); err != nil {
		return &Error{errors.Wrap(err, "write batch")}
	}
	for key, blob := range blobs {
		_ = s.blobs.Set(key[:], blob)
	}
	metricAccountsCommitted().Add(int64(len(changes)))
	return nil
}

// Iterate calls fn for every committed account until fn returns false.
func (s *Stater) Iterate(fn func(key pubkey.Key, acc *Account) bool) error {
	it := accountBucket.NewStore(s.store).Iterate(kv.Range{})
	defer it.Release()

	for it.Next() {
		acc, err := loadAccount(it.Value())
		if err != nil {
			return &Error{errors.Wrap(err, "decode account")}
		}
		if !fn(pubkey.BytesToKey(it.Key()), acc) {
			break
		}
	}
	if err := it.Error(); err != nil {
		return &Error{err}
	}
	return nil
}

func (s *Stater) logStats() {
	now := time.Now().UnixNano()
	last := s.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		snap := s.stats.Snapshot()
		logger.Debug("account cache stats", "hit", snap.Hit, "miss", snap.Miss, "permille", snap.HitRate())
		metricCacheHitMiss().AddWithLabel(snap.Hit, map[string]string{"event": "hit"})
		metricCacheHitMiss().AddWithLabel(snap.Miss, map[string]string{"event": "miss"})
		metricCacheHitRate().Set(snap.HitRate())
	} else {
		s.lastLogTime.CompareAndSwap(now, last)
	}
}
