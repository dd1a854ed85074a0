// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// Range is an inclusive range of receipt times, in unix seconds.
type Range struct {
	From int64
	To   int64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// ReceiptFilter selects receipts. Nil fields match everything.
type ReceiptFilter struct {
	Range    *Range
	Reverted *bool
	Order    Order // default asc
	Options  *Options
}
