// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sysvar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/sysvar"
)

func TestRent(t *testing.T) {
	rent := sysvar.DefaultRent()
	assert.Equal(t, uint64((128+112)*3480*2), rent.MinimumBalance(112))
	assert.True(t, rent.IsExempt(rent.MinimumBalance(104), 104))
	assert.False(t, rent.IsExempt(rent.MinimumBalance(104)-1, 104))
	assert.Less(t, rent.MinimumBalance(0), rent.MinimumBalance(1))
}

func TestManualClock(t *testing.T) {
	c := sysvar.NewManualClock(100)
	assert.Equal(t, int64(100), c.Now())
	assert.Equal(t, int64(110), c.Advance(10))
	c.Set(5)
	assert.Equal(t, int64(5), c.Now())

	var clock sysvar.Clock = sysvar.SystemClock{}
	assert.Positive(t, clock.Now())
}
