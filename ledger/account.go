// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakepool/pubkey"
)

// Account is the ledger representation of an account.
// RLP encoded objects are stored in the account bucket.
type Account struct {
	Owner   pubkey.Key // program that may modify Data and debit Balance
	Balance uint64     // native balance, pays rent
	Data    []byte
}

// IsEmpty returns if an account is empty.
// An empty account has zero balance, no data and is owned by the system program.
func (a *Account) IsEmpty() bool {
	return a.Balance == 0 && len(a.Data) == 0 && a.Owner.IsZero()
}

// IsUnallocated reports whether the account holds no data and is owned by
// the system program. Such an account may still carry a native balance.
func (a *Account) IsUnallocated() bool {
	return len(a.Data) == 0 && a.Owner.IsZero()
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := *a
	if a.Data != nil {
		cpy.Data = bytes.Clone(a.Data)
	}
	return &cpy
}

// Equal reports whether a and b hold the same owner, balance and data.
func (a *Account) Equal(b *Account) bool {
	return a.Owner == b.Owner && a.Balance == b.Balance && bytes.Equal(a.Data, b.Data)
}

func emptyAccount() *Account {
	return &Account{}
}

// loadAccount decodes an account blob. nil blob yields an empty account.
func loadAccount(blob []byte) (*Account, error) {
	if len(blob) == 0 {
		return emptyAccount(), nil
	}
	var a Account
	if err := rlp.DecodeBytes(blob, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// saveAccount encodes an account. Empty accounts encode to nil and are deleted.
func saveAccount(a *Account) ([]byte, error) {
	if a.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(a)
}
