// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/tx"
)

// NewCreatePoolInstruction builds the instruction creating the pool of mint
// and its custody account, funded by payer.
func NewCreatePoolInstruction(payer, authority, mint pubkey.Key, rewardRate uint64, minLockPeriod int64) (*tx.Instruction, error) {
	pool, _, err := FindPoolAddress(mint)
	if err != nil {
		return nil, err
	}
	custody, err := FindCustodyAddress(pool, mint)
	if err != nil {
		return nil, err
	}
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(payer, true),
		tx.NewReadonlyAccountMeta(authority, true),
		tx.NewAccountMeta(pool, false),
		tx.NewReadonlyAccountMeta(mint, false),
		tx.NewAccountMeta(custody, false),
		tx.NewReadonlyAccountMeta(system.ProgramID, false),
		tx.NewReadonlyAccountMeta(token.ProgramID, false),
		tx.NewReadonlyAccountMeta(token.AssociatedProgramID, false),
	}, EncodeInstruction(&CreatePool{RewardRate: rewardRate, MinLockPeriod: minLockPeriod})), nil
}

// NewUpdateConfigInstruction builds the instruction replacing the non-nil
// config fields of the pool of mint.
func NewUpdateConfigInstruction(authority, mint pubkey.Key, rewardRate *uint64, minLockPeriod *int64) (*tx.Instruction, error) {
	pool, _, err := FindPoolAddress(mint)
	if err != nil {
		return nil, err
	}
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewReadonlyAccountMeta(authority, true),
		tx.NewAccountMeta(pool, false),
		tx.NewReadonlyAccountMeta(mint, false),
	}, EncodeInstruction(&UpdateConfig{RewardRate: rewardRate, MinLockPeriod: minLockPeriod})), nil
}

// NewCreateUserRecordInstruction builds the instruction creating owner's
// ledger in the pool of mint, funded by payer.
func NewCreateUserRecordInstruction(payer, owner, mint pubkey.Key) (*tx.Instruction, error) {
	pool, _, err := FindPoolAddress(mint)
	if err != nil {
		return nil, err
	}
	user, _, err := FindUserAddress(pool, owner)
	if err != nil {
		return nil, err
	}
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(payer, true),
		tx.NewReadonlyAccountMeta(owner, true),
		tx.NewReadonlyAccountMeta(pool, false),
		tx.NewAccountMeta(user, false),
		tx.NewReadonlyAccountMeta(system.ProgramID, false),
	}, EncodeInstruction(&CreateUserRecord{})), nil
}

// NewStakeInstruction builds the instruction staking amount from holder,
// a token account of owner.
func NewStakeInstruction(owner, holder, mint pubkey.Key, amount uint64) (*tx.Instruction, error) {
	return positionInstruction(owner, holder, mint, &Stake{Amount: amount})
}

// NewClaimRewardsInstruction builds the instruction paying owner's rewards to holder.
func NewClaimRewardsInstruction(owner, holder, mint pubkey.Key) (*tx.Instruction, error) {
	return positionInstruction(owner, holder, mint, &ClaimRewards{})
}

// NewUnstakeInstruction builds the instruction returning owner's principal
// and rewards to holder.
func NewUnstakeInstruction(owner, holder, mint pubkey.Key) (*tx.Instruction, error) {
	return positionInstruction(owner, holder, mint, &Unstake{})
}

func positionInstruction(owner, holder, mint pubkey.Key, ix Instruction) (*tx.Instruction, error) {
	pool, _, err := FindPoolAddress(mint)
	if err != nil {
		return nil, err
	}
	user, _, err := FindUserAddress(pool, owner)
	if err != nil {
		return nil, err
	}
	custody, err := FindCustodyAddress(pool, mint)
	if err != nil {
		return nil, err
	}
	poolMeta := tx.NewReadonlyAccountMeta(pool, false)
	if ix.Tag() != TagClaimRewards {
		poolMeta = tx.NewAccountMeta(pool, false)
	}
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewReadonlyAccountMeta(owner, true),
		tx.NewAccountMeta(holder, false),
		tx.NewReadonlyAccountMeta(mint, false),
		poolMeta,
		tx.NewAccountMeta(user, false),
		tx.NewAccountMeta(custody, false),
		tx.NewReadonlyAccountMeta(token.ProgramID, false),
	}, EncodeInstruction(ix)), nil
}
