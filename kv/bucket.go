// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/syndtr/goleveldb/leveldb/util"
)

// Bucket is a key prefix partitioning a store into logical tables.
type Bucket string

// Key returns the full key of key inside the bucket.
func (b Bucket) Key(key []byte) []byte {
	return append(append(make([]byte, 0, len(b)+len(key)), b...), key...)
}

// NewGetter creates a getter reading inside the bucket.
func (b Bucket) NewGetter(src Getter) Getter { return &bucketGetter{b, src} }

// NewPutter creates a putter writing inside the bucket.
func (b Bucket) NewPutter(src Putter) Putter { return &bucketPutter{b, src} }

// NewBulk wraps a bulk so that every key written lands in the bucket.
func (b Bucket) NewBulk(src Bulk) Bulk { return &bucketBulk{bucketPutter{b, src}, src} }

// NewStore creates a store confined to the bucket.
func (b Bucket) NewStore(src Store) Store {
	return &bucketStore{bucketGetter{b, src}, bucketPutter{b, src}, src}
}

type bucketGetter struct {
	b   Bucket
	src Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) { return g.src.Get(g.b.Key(key)) }
func (g *bucketGetter) IsNotFound(err error) bool      { return g.src.IsNotFound(err) }

type bucketPutter struct {
	b   Bucket
	src Putter
}

func (p *bucketPutter) Put(key, val []byte) error { return p.src.Put(p.b.Key(key), val) }
func (p *bucketPutter) Delete(key []byte) error   { return p.src.Delete(p.b.Key(key)) }

type bucketBulk struct {
	bucketPutter
	src Bulk
}

func (bb *bucketBulk) Write() error { return bb.src.Write() }

type bucketStore struct {
	bucketGetter
	bucketPutter
	src Store
}

func (s *bucketStore) Bulk() Bulk {
	return s.bucketGetter.b.NewBulk(s.src.Bulk())
}

func (s *bucketStore) Iterate(r Range) Iterator {
	b := s.bucketGetter.b
	r.Start = b.Key(r.Start)
	if len(r.Limit) == 0 {
		r.Limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		r.Limit = b.Key(r.Limit)
	}
	return &bucketIterator{s.src.Iterate(r), len(b)}
}

// bucketIterator strips the bucket prefix from keys.
type bucketIterator struct {
	Iterator
	prefixLen int
}

func (it *bucketIterator) Key() []byte { return it.Iterator.Key()[it.prefixLen:] }
