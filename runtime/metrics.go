// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/stakepool/metrics"

var (
	metricTxCounter  = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"status"})
	metricTxDuration = metrics.LazyLoadHistogram("runtime_tx_duration_ms", metrics.BucketExecution)
	metricLockWait   = metrics.LazyLoadHistogram("runtime_lock_wait_ms", metrics.BucketExecution)
)
