// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "github.com/vechain/stakepool/metrics"

var (
	metricReceiptsWritten   = metrics.LazyLoadCounter("logdb_receipts_written_count")
	metricQueryOrderCounter = metrics.LazyLoadCounterVec("logdb_query_order", []string{"order"})
	metricOffsetBucket      = metrics.LazyLoadHistogram("logdb_query_offset_bucket", []int64{
		0, 1_000, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000, 500_000, 1_000_000,
	})
	metricLimitBucket = metrics.LazyLoadHistogram("logdb_query_limit_bucket", []int64{
		0, 5, 10, 25, 50, 100, 250, 500, 1000,
	})
)

func metricsHandleFilter(filter *ReceiptFilter) {
	if metrics.NoOp() {
		return
	}

	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}

	if filter.Options == nil {
		return
	}
	offset := min(filter.Options.Offset, 1_000_001)
	metricOffsetBucket().Observe(int64(offset))

	limit := min(filter.Options.Limit, 1001)
	metricLimitBucket().Observe(int64(limit))
}
