// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter reads values by key.
type Getter interface {
	Get(key []byte) ([]byte, error)
	// IsNotFound reports whether an error returned by Get means a missing key.
	IsNotFound(err error) bool
}

// Putter writes values by key.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Bulk buffers writes and applies them atomically on Write.
type Bulk interface {
	Putter
	Write() error
}

// Iterator walks kv pairs in key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is a key range, Start included and Limit excluded.
// An empty Limit means no upper bound.
type Range struct {
	Start []byte
	Limit []byte
}

// Store is a kv store with atomic bulk writes and range iteration.
type Store interface {
	Getter
	Putter

	Bulk() Bulk
	Iterate(r Range) Iterator
}
