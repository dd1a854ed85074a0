// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/staking"
)

type Pool struct {
	Address        pubkey.Key `json:"address"`
	Mint           pubkey.Key `json:"mint"`
	Authority      pubkey.Key `json:"authority"`
	Custody        pubkey.Key `json:"custody"`
	RewardRate     uint64     `json:"rewardRate"`
	MinLockPeriod  int64      `json:"minLockPeriod"`
	TotalStaked    uint64     `json:"totalStaked"`
	Bump           uint8      `json:"bump"`
	CustodyBalance uint64     `json:"custodyBalance"`
	RewardReserve  uint64     `json:"rewardReserve"`
}

type Staker struct {
	Address        pubkey.Key `json:"address"`
	Owner          pubkey.Key `json:"owner"`
	Pool           pubkey.Key `json:"pool"`
	Amount         uint64     `json:"amount"`
	StartTime      int64      `json:"startTime"`
	LastClaimTime  int64      `json:"lastClaimTime"`
	RewardsClaimed uint64     `json:"rewardsClaimed"`
	Active         bool       `json:"active"`
	Pending        uint64     `json:"pending"`
	// pending saturated at the uint64 maximum, claiming fails until the rate drops
	PendingOverflow bool `json:"pendingOverflow,omitempty"`
	// earliest unix time an unstake succeeds, zero when not staked
	UnlockTime int64 `json:"unlockTime"`
}

func convertPool(v *staking.PoolView) *Pool {
	return &Pool{
		Address:        v.Address,
		Mint:           v.Mint,
		Authority:      v.Authority,
		Custody:        v.Custody,
		RewardRate:     v.RewardRate,
		MinLockPeriod:  v.MinLockPeriod,
		TotalStaked:    v.TotalStaked,
		Bump:           v.Bump,
		CustodyBalance: v.CustodyBalance,
		RewardReserve:  v.RewardReserve,
	}
}

func convertStaker(v *staking.UserView, lock int64) *Staker {
	s := &Staker{
		Address:         v.Address,
		Owner:           v.Owner,
		Pool:            v.User.Pool,
		Amount:          v.Amount,
		StartTime:       v.StartTime,
		LastClaimTime:   v.LastClaimTime,
		RewardsClaimed:  v.RewardsClaimed,
		Active:          v.IsActive(),
		Pending:         v.Pending,
		PendingOverflow: v.PendingOverflow,
	}
	if s.Active {
		s.UnlockTime = v.StartTime + lock
		if s.UnlockTime < v.StartTime {
			s.UnlockTime = v.StartTime
		}
	}
	return s
}
