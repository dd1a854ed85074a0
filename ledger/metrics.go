// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import "github.com/vechain/stakepool/metrics"

var (
	metricAccountsCommitted = metrics.LazyLoadCounter("ledger_accounts_committed_count")
	metricCacheHitMiss      = metrics.LazyLoadCounterVec("ledger_cache_hit_miss_count", []string{"event"})
	metricCacheHitRate      = metrics.LazyLoadGauge("ledger_cache_hit_rate_permille")
)
