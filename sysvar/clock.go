// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sysvar provides the cluster wide parameters programs may read while
// executing: the clock and the rent schedule.
package sysvar

import (
	"sync"
	"time"
)

// Clock reports the current unix timestamp in seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads the host wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() int64 { return time.Now().Unix() }

// ManualClock is a Clock driven explicitly, for tests and replay.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a ManualClock starting at now.
func NewManualClock(now int64) *ManualClock {
	return &ManualClock{now: now}
}

// Now implements Clock.
func (c *ManualClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to now. Moving backwards is allowed.
func (c *ManualClock) Set(now int64) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Advance moves the clock forward by secs and returns the new time.
func (c *ManualClock) Advance(secs int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += secs
	return c.now
}
