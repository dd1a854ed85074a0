// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

// RewardScale is the fixed point scale of Pool.RewardRate.
const RewardScale = 1_000_000_000

var rewardScale = uint256.NewInt(RewardScale)

// PendingRewards returns elapsed*amount*rewardRate/RewardScale, truncated.
// The product is computed in 256 bits so it can not overflow; a result that
// does not fit 64 bits fails with ArithmeticOverflow. Non-positive elapsed
// time accrues nothing.
func PendingRewards(amount, rewardRate uint64, elapsed int64) (uint64, error) {
	if elapsed <= 0 || amount == 0 || rewardRate == 0 {
		return 0, nil
	}
	r := uint256.NewInt(uint64(elapsed))
	r.Mul(r, uint256.NewInt(amount))
	r.Mul(r, uint256.NewInt(rewardRate))
	r.Div(r, rewardScale)
	if !r.IsUint64() {
		return 0, newError(ArithmeticOverflow, "pending rewards %v", r.Dec())
	}
	return r.Uint64(), nil
}

// Elapsed returns max(0, now-since), saturating at math.MaxInt64.
func Elapsed(now, since int64) int64 {
	if now <= since {
		return 0
	}
	d := now - since
	if d < 0 {
		return math.MaxInt64
	}
	return d
}

// heldFor returns now-start without clamping, saturating at the int64 bounds.
// It is negative when the clock is behind the stake start.
func heldFor(now, start int64) int64 {
	d := now - start
	switch {
	case start < 0 && d < now:
		return math.MaxInt64
	case start > 0 && d > now:
		return math.MinInt64
	}
	return d
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, newError(ArithmeticOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, newError(InsufficientStake, "%d - %d", a, b)
	}
	return diff, nil
}
