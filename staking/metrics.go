// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"

	"github.com/vechain/stakepool/metrics"
)

var (
	metricInstructionCount = metrics.LazyLoadCounterVec("staking_instruction_count", []string{"op", "result"})
	metricStakedAmount     = metrics.LazyLoadCounterVec("staking_principal_amount", []string{"direction"})
	metricRewardsPaid      = metrics.LazyLoadCounter("staking_rewards_paid_amount")
)

// meterAmount converts a token amount for the counters, which take int64
// and panic on negative increments.
func meterAmount(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
