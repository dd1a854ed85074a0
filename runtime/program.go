// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
)

// Program is native code registered with the runtime under a fixed id.
type Program interface {
	ID() pubkey.Key
	Execute(ctx *InvokeContext, accounts []*AccountInfo, data []byte) error
}

// AccountInfo is a program's view of one account passed to an instruction.
// Infos of the same key share the underlying account, so mutations through
// any of them are visible to all.
type AccountInfo struct {
	Key        pubkey.Key
	IsSigner   bool
	IsWritable bool
	*ledger.Account
}

// ErrorCoder is implemented by program errors carrying a numeric code.
// The code is surfaced in receipts.
type ErrorCoder interface {
	ErrorCode() uint32
}
