// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"

	"github.com/vechain/stakepool/pubkey"
)

// PoolSize is the fixed data size of a pool account.
const PoolSize = 112

// Pool is the ledger of one token's staking pool.
//
// Layout (little-endian): authority 32 | custody 32 | rewardRate 8 |
// minLockPeriod 8 | totalStaked 8 | bump 1 | reserved 23.
type Pool struct {
	Authority     pubkey.Key // may update the config, fixed at creation
	Custody       pubkey.Key // token account holding staked principal and rewards, fixed at creation
	RewardRate    uint64     // reward units per staked unit per second, scaled by RewardScale
	MinLockPeriod int64      // seconds
	TotalStaked   uint64     // sum of the amount of every user ledger of this pool
	Bump          uint8      // completes the pool address seeds
}

// Encode returns the fixed size encoding of p.
func (p *Pool) Encode() []byte {
	data := make([]byte, PoolSize)
	p.EncodeTo(data)
	return data
}

// EncodeTo writes p into data, which must be PoolSize long. Reserved bytes are zeroed.
func (p *Pool) EncodeTo(data []byte) {
	copy(data[0:32], p.Authority[:])
	copy(data[32:64], p.Custody[:])
	binary.LittleEndian.PutUint64(data[64:], p.RewardRate)
	binary.LittleEndian.PutUint64(data[72:], uint64(p.MinLockPeriod))
	binary.LittleEndian.PutUint64(data[80:], p.TotalStaked)
	data[88] = p.Bump
	clear(data[89:PoolSize])
}

// DecodePool decodes a pool account's data.
func DecodePool(data []byte) (*Pool, error) {
	if len(data) != PoolSize {
		return nil, newError(InvalidAccountData, "pool data length %d", len(data))
	}
	return &Pool{
		Authority:     pubkey.BytesToKey(data[0:32]),
		Custody:       pubkey.BytesToKey(data[32:64]),
		RewardRate:    binary.LittleEndian.Uint64(data[64:]),
		MinLockPeriod: int64(binary.LittleEndian.Uint64(data[72:])),
		TotalStaked:   binary.LittleEndian.Uint64(data[80:]),
		Bump:          data[88],
	}, nil
}
