// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/vechain/stakepool/pubkey"
)

// UserSize is the fixed data size of a user account.
const UserSize = 104

// User is the ledger of one depositor in one pool. It is never deleted;
// a zero Amount means no active stake.
//
// Layout (little-endian): owner 32 | pool 32 | amount 8 | startTime 8 |
// lastClaimTime 8 | rewardsClaimed 8 | reserved 8.
type User struct {
	Owner          pubkey.Key
	Pool           pubkey.Key
	Amount         uint64 // staked principal
	StartTime      int64  // when the current stake was opened
	LastClaimTime  int64  // accrual settled up to here
	RewardsClaimed uint64 // total paid, informational
}

// IsActive reports whether the user has principal staked.
func (u *User) IsActive() bool { return u.Amount > 0 }

// Encode returns the fixed size encoding of u.
func (u *User) Encode() []byte {
	data := make([]byte, UserSize)
	u.EncodeTo(data)
	return data
}

// EncodeTo writes u into data, which must be UserSize long. Reserved bytes are zeroed.
func (u *User) EncodeTo(data []byte) {
	copy(data[0:32], u.Owner[:])
	copy(data[32:64], u.Pool[:])
	binary.LittleEndian.PutUint64(data[64:], u.Amount)
	binary.LittleEndian.PutUint64(data[72:], uint64(u.StartTime))
	binary.LittleEndian.PutUint64(data[80:], uint64(u.LastClaimTime))
	binary.LittleEndian.PutUint64(data[88:], u.RewardsClaimed)
	clear(data[96:UserSize])
}

// DecodeUser decodes a user account's data.
func DecodeUser(data []byte) (*User, error) {
	if len(data) != UserSize {
		return nil, newError(InvalidAccountData, "user data length %d", len(data))
	}
	return &User{
		Owner:          pubkey.BytesToKey(data[0:32]),
		Pool:           pubkey.BytesToKey(data[32:64]),
		Amount:         binary.LittleEndian.Uint64(data[64:]),
		StartTime:      int64(binary.LittleEndian.Uint64(data[72:])),
		LastClaimTime:  int64(binary.LittleEndian.Uint64(data[80:])),
		RewardsClaimed: binary.LittleEndian.Uint64(data[88:]),
	}, nil
}
