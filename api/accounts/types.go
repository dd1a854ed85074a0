// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/token"
)

// Account for marshal account
type Account struct {
	Owner   pubkey.Key    `json:"owner"`
	Balance uint64        `json:"balance"`
	Data    hexutil.Bytes `json:"data"`
	Token   *TokenAccount `json:"token,omitempty"`
}

// TokenAccount is the decoded data of an account held by the token program.
type TokenAccount struct {
	Mint   pubkey.Key `json:"mint"`
	Owner  pubkey.Key `json:"owner"`
	Amount uint64     `json:"amount"`
}

func convertAccount(acc *ledger.Account) *Account {
	a := &Account{
		Owner:   acc.Owner,
		Balance: acc.Balance,
		Data:    hexutil.Bytes(acc.Data),
	}
	if acc.Owner == token.ProgramID {
		if ta, err := token.DecodeAccount(acc.Data); err == nil {
			a.Token = &TokenAccount{Mint: ta.Mint, Owner: ta.Owner, Amount: ta.Amount}
		}
	}
	return a
}
