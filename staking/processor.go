// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package staking implements the staking pool program: per-mint pools that
// hold staked tokens in custody and pay time-based rewards from the pool's
// surplus balance.
package staking

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/token"
)

var logger = log.WithContext("pkg", "staking")

type program struct{}

// Program returns the staking program.
func Program() runtime.Program { return program{} }

func (program) ID() pubkey.Key { return ProgramID }

func (program) Execute(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) (err error) {
	ix, err := DecodeInstruction(data)
	if err != nil {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": "unknown", "result": resultLabel(err)})
		return err
	}
	defer func() {
		metricInstructionCount().AddWithLabel(1, map[string]string{"op": ix.Tag().String(), "result": resultLabel(err)})
		if err != nil {
			logger.Debug("instruction failed", "op", ix.Tag(), "err", err)
		}
	}()

	switch ix := ix.(type) {
	case *CreatePool:
		return processCreatePool(ctx, accounts, ix)
	case *UpdateConfig:
		return processUpdateConfig(ctx, accounts, ix)
	case *CreateUserRecord:
		return processCreateUserRecord(ctx, accounts)
	case *Stake:
		return processStake(ctx, accounts, ix.Amount)
	case *ClaimRewards:
		return processClaimRewards(ctx, accounts)
	case *Unstake:
		return processUnstake(ctx, accounts)
	}
	return newError(InvalidInstruction, "unhandled tag %v", ix.Tag())
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code.String()
	}
	return "error"
}

func processCreatePool(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, args *CreatePool) error {
	v, err := validate(ctx, accounts, createPoolChecks)
	if err != nil {
		return err
	}
	var (
		payer   = accounts[cpPayer]
		pool    = accounts[cpPool]
		mint    = accounts[cpMint]
		custody = accounts[cpCustody]
		rent    = ctx.Rent()
	)

	if err := system.CreateAccount(ctx, payer, pool, rent.MinimumBalance(PoolSize), PoolSize, ProgramID,
		PoolSeeds(mint.Key, v.poolBump)); err != nil {
		return err
	}
	if v.custody == nil {
		if err := token.CreateAssociatedAccount(ctx, []*runtime.AccountInfo{
			payer, custody, pool, mint, accounts[cpSystem], accounts[cpToken],
		}); err != nil {
			return err
		}
	}
	if !rent.IsExempt(pool.Balance, len(pool.Data)) || !rent.IsExempt(custody.Balance, len(custody.Data)) {
		return newError(NotRentExempt, "pool %v", pool.Key)
	}

	p := &Pool{
		Authority:     accounts[cpAuthority].Key,
		Custody:       custody.Key,
		RewardRate:    args.RewardRate,
		MinLockPeriod: args.MinLockPeriod,
		Bump:          v.poolBump,
	}
	p.EncodeTo(pool.Data)
	ctx.Logf("staking: pool %v created for mint %v, rate %d, lock %ds", pool.Key.AbbrevString(), mint.Key.AbbrevString(), p.RewardRate, p.MinLockPeriod)
	return nil
}

func processUpdateConfig(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, args *UpdateConfig) error {
	v, err := validate(ctx, accounts, updateConfigChecks)
	if err != nil {
		return err
	}
	if args.RewardRate != nil {
		v.pool.RewardRate = *args.RewardRate
	}
	if args.MinLockPeriod != nil {
		v.pool.MinLockPeriod = *args.MinLockPeriod
	}
	v.pool.EncodeTo(accounts[ucPool].Data)
	ctx.Logf("staking: pool config rate %d, lock %ds", v.pool.RewardRate, v.pool.MinLockPeriod)
	return nil
}

func processCreateUserRecord(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo) error {
	v, err := validate(ctx, accounts, createUserChecks)
	if err != nil {
		return err
	}
	var (
		owner = accounts[cuOwner]
		pool  = accounts[cuPool]
		user  = accounts[cuUser]
		rent  = ctx.Rent()
	)
	if err := system.CreateAccount(ctx, accounts[cuPayer], user, rent.MinimumBalance(UserSize), UserSize, ProgramID,
		userSeeds(pool.Key, owner.Key, v.userBump)); err != nil {
		return err
	}
	if !rent.IsExempt(user.Balance, len(user.Data)) {
		return newError(NotRentExempt, "user %v", user.Key)
	}
	u := &User{Owner: owner.Key, Pool: pool.Key}
	u.EncodeTo(user.Data)
	ctx.Logf("staking: user record %v created", user.Key.AbbrevString())
	return nil
}

func processStake(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, amount uint64) error {
	v, err := validate(ctx, accounts, stakeChecks)
	if err != nil {
		return err
	}
	if amount == 0 {
		return newError(ZeroAmount, "")
	}
	if v.user.IsActive() {
		return newError(DoubleStake, "%d already staked", v.user.Amount)
	}
	if v.holder.Amount < amount {
		return newError(InsufficientFunds, "holder has %d, stake %d", v.holder.Amount, amount)
	}
	total, err := checkedAdd(v.pool.TotalStaked, amount)
	if err != nil {
		return err
	}
	if _, err := checkedAdd(v.custody.Amount, amount); err != nil {
		return err
	}

	if err := token.Transfer(ctx, accounts[psHolder], accounts[psCustody], accounts[psOwner], amount); err != nil {
		return err
	}

	now := ctx.Now()
	v.user.Amount = amount
	v.user.StartTime = now
	v.user.LastClaimTime = now
	v.pool.TotalStaked = total
	v.user.EncodeTo(accounts[psUser].Data)
	v.pool.EncodeTo(accounts[psPool].Data)

	metricStakedAmount().AddWithLabel(meterAmount(amount), map[string]string{"direction": "in"})
	ctx.Logf("staking: staked %d", amount)
	return nil
}

func processClaimRewards(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo) error {
	v, err := validate(ctx, accounts, claimChecks)
	if err != nil {
		return err
	}
	if !v.user.IsActive() {
		return newError(NoActiveStake, "")
	}
	paid, err := settle(ctx, v, accounts)
	if err != nil {
		return err
	}
	v.user.EncodeTo(accounts[psUser].Data)
	ctx.Logf("staking: claimed %d", paid)
	return nil
}

func processUnstake(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo) error {
	v, err := validate(ctx, accounts, unstakeChecks)
	if err != nil {
		return err
	}
	if !v.user.IsActive() {
		return newError(NoActiveStake, "")
	}
	now := ctx.Now()
	if held := heldFor(now, v.user.StartTime); held < v.pool.MinLockPeriod {
		return newError(LockNotExpired, "held %ds of %ds", held, v.pool.MinLockPeriod)
	}
	principal := v.user.Amount
	remaining, err := checkedSub(v.pool.TotalStaked, principal)
	if err != nil {
		return err
	}

	paid, err := settle(ctx, v, accounts)
	if err != nil {
		return err
	}
	if v.custody.Amount < principal {
		return newError(InsufficientVaultBalance, "custody holds %d, principal %d", v.custody.Amount, principal)
	}
	if err := transferFromCustody(ctx, v, accounts, principal); err != nil {
		return err
	}

	v.user.Amount = 0
	v.pool.TotalStaked = remaining
	v.user.EncodeTo(accounts[psUser].Data)
	v.pool.EncodeTo(accounts[psPool].Data)

	metricStakedAmount().AddWithLabel(meterAmount(principal), map[string]string{"direction": "out"})
	ctx.Logf("staking: unstaked %d, rewards %d", principal, paid)
	return nil
}

// settle pays the rewards accrued since the last claim out of the custody
// surplus and advances the user's claim time. Only the surplus above the
// pool's total stake may pay rewards, so principal is never spent on them.
func settle(ctx *runtime.InvokeContext, v *validation, accounts []*runtime.AccountInfo) (uint64, error) {
	now := ctx.Now()
	pending, err := PendingRewards(v.user.Amount, v.pool.RewardRate, Elapsed(now, v.user.LastClaimTime))
	if err != nil {
		return 0, err
	}
	claimed, err := checkedAdd(v.user.RewardsClaimed, pending)
	if err != nil {
		return 0, err
	}
	if pending > 0 {
		var surplus uint64
		if v.custody.Amount > v.pool.TotalStaked {
			surplus = v.custody.Amount - v.pool.TotalStaked
		}
		if pending > surplus {
			return 0, newError(InsufficientVaultBalance, "reward %d, surplus %d", pending, surplus)
		}
		if err := transferFromCustody(ctx, v, accounts, pending); err != nil {
			return 0, err
		}
		metricRewardsPaid().Add(meterAmount(pending))
	}
	v.user.RewardsClaimed = claimed
	v.user.LastClaimTime = max(v.user.LastClaimTime, now)
	return pending, nil
}

// transferFromCustody moves amount from the custody to the holder, signed by
// the pool address.
func transferFromCustody(ctx *runtime.InvokeContext, v *validation, accounts []*runtime.AccountInfo, amount uint64) error {
	err := token.Transfer(ctx, accounts[psCustody], accounts[psHolder], accounts[psPool], amount,
		PoolSeeds(accounts[psMint].Key, v.poolBump))
	if err != nil {
		return err
	}
	v.custody.Amount -= amount
	return nil
}
