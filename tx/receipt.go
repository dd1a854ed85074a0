// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/stakepool/pubkey"
)

// Receipt is the outcome of executing a transaction.
type Receipt struct {
	TxID pubkey.Key
	// execution timestamp (unix seconds)
	Time int64
	// true if none of the transaction's changes were applied
	Reverted bool
	// index of the instruction that failed
	FailedInstruction uint32
	// program error code of the failure, 0 if none or not a program error
	ErrorCode uint32
	// failure message
	Error string
	// log lines emitted by programs
	Logs []string
}
