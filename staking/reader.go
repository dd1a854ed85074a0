// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/token"
)

// ErrNotFound is returned by Reader for absent pools and user records.
var ErrNotFound = errors.New("staking: not found")

// AccountGetter reads committed accounts.
type AccountGetter interface {
	GetAccount(key pubkey.Key) (*ledger.Account, error)
}

// PoolView is a pool as seen by clients.
type PoolView struct {
	Address pubkey.Key
	Mint    pubkey.Key
	*Pool
	CustodyBalance uint64
	RewardReserve  uint64 // custody balance above the total stake
}

// UserView is a user ledger with the rewards it could claim now.
type UserView struct {
	Address pubkey.Key
	*User
	Pending uint64
	// PendingOverflow is set when the accrued rewards do not fit 64 bits.
	// Pending is then math.MaxUint64 and a claim would fail.
	PendingOverflow bool
}

// Reader decodes staking accounts from committed state.
type Reader struct {
	getter AccountGetter
}

// NewReader creates a reader over getter.
func NewReader(getter AccountGetter) *Reader {
	return &Reader{getter}
}

// Pool returns the pool of mint.
func (r *Reader) Pool(mint pubkey.Key) (*PoolView, error) {
	addr, _, err := FindPoolAddress(mint)
	if err != nil {
		return nil, err
	}
	acc, err := r.getter.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if acc.IsEmpty() || acc.Owner != ProgramID {
		return nil, ErrNotFound
	}
	p, err := DecodePool(acc.Data)
	if err != nil {
		return nil, err
	}
	view := &PoolView{Address: addr, Mint: mint, Pool: p}

	custody, err := r.getter.GetAccount(p.Custody)
	if err != nil {
		return nil, err
	}
	if ta, err := token.DecodeAccount(custody.Data); err == nil {
		view.CustodyBalance = ta.Amount
		if ta.Amount > p.TotalStaked {
			view.RewardReserve = ta.Amount - p.TotalStaked
		}
	}
	return view, nil
}

// User returns owner's ledger in the pool of mint, with rewards pending at now.
func (r *Reader) User(mint, owner pubkey.Key, now int64) (*UserView, error) {
	pool, err := r.Pool(mint)
	if err != nil {
		return nil, err
	}
	addr, _, err := FindUserAddress(pool.Address, owner)
	if err != nil {
		return nil, err
	}
	acc, err := r.getter.GetAccount(addr)
	if err != nil {
		return nil, err
	}
	if acc.IsEmpty() || acc.Owner != ProgramID {
		return nil, ErrNotFound
	}
	u, err := DecodeUser(acc.Data)
	if err != nil {
		return nil, err
	}
	view := &UserView{Address: addr, User: u}
	view.Pending, err = PendingRewards(u.Amount, pool.RewardRate, Elapsed(now, u.LastClaimTime))
	if err != nil {
		if !IsCode(err, ArithmeticOverflow) {
			return nil, err
		}
		view.Pending, view.PendingOverflow = math.MaxUint64, true
	}
	return view, nil
}
