// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"encoding/binary"

	"github.com/vechain/stakepool/pubkey"
)

const (
	// MintSize is the data size of a mint account.
	MintSize = 32 + 8 + 1
	// AccountSize is the data size of a token account.
	AccountSize = 32 + 32 + 8
)

// Mint describes a fungible token type.
type Mint struct {
	Authority pubkey.Key // may mint new supply
	Supply    uint64
	Decimals  uint8
}

// Encode returns the fixed size encoding of m.
func (m *Mint) Encode() []byte {
	data := make([]byte, MintSize)
	copy(data, m.Authority[:])
	binary.LittleEndian.PutUint64(data[32:], m.Supply)
	data[40] = m.Decimals
	return data
}

// DecodeMint decodes a mint account's data.
func DecodeMint(data []byte) (*Mint, error) {
	if len(data) != MintSize {
		return nil, ErrInvalidAccountData
	}
	return &Mint{
		Authority: pubkey.BytesToKey(data[:32]),
		Supply:    binary.LittleEndian.Uint64(data[32:]),
		Decimals:  data[40],
	}, nil
}

// Account holds a balance of one mint on behalf of an owner.
type Account struct {
	Mint   pubkey.Key
	Owner  pubkey.Key // may transfer the balance out
	Amount uint64
}

// IsInitialized reports whether the account was bound to a mint.
func (a *Account) IsInitialized() bool {
	return !a.Mint.IsZero()
}

// Encode returns the fixed size encoding of a.
func (a *Account) Encode() []byte {
	data := make([]byte, AccountSize)
	a.EncodeTo(data)
	return data
}

// EncodeTo writes the encoding of a into data, which must be AccountSize long.
func (a *Account) EncodeTo(data []byte) {
	copy(data, a.Mint[:])
	copy(data[32:], a.Owner[:])
	binary.LittleEndian.PutUint64(data[64:], a.Amount)
}

// DecodeAccount decodes a token account's data.
func DecodeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, ErrInvalidAccountData
	}
	return &Account{
		Mint:   pubkey.BytesToKey(data[:32]),
		Owner:  pubkey.BytesToKey(data[32:64]),
		Amount: binary.LittleEndian.Uint64(data[64:]),
	}, nil
}
