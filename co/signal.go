// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"
)

// Signal is a broadcast point for goroutines waiting for a state change.
// Unlike sync.Cond it is channel based, so waiting can be combined with a
// context. A waiter taken before a Broadcast always observes it.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewWaiter returns a channel closed by the next Broadcast.
func (s *Signal) NewWaiter() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines waiting on s.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ch != nil {
		close(s.ch)
		s.ch = nil
	}
}

// Wait blocks until w fires or ctx is done.
func Wait(ctx context.Context, w <-chan struct{}) error {
	select {
	case <-w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
