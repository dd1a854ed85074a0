// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking_test

import (
	"context"
	"math"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/metrics"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/tx"
)

var (
	mint      = pubkey.NamedKey("stake-mint")
	otherMint = pubkey.NamedKey("other-mint")
	mintAuth  = pubkey.NamedKey("mint-authority")
	authority = pubkey.NamedKey("pool-authority")
	alice     = pubkey.NamedKey("alice")
	bob       = pubkey.NamedKey("bob")
	carol     = pubkey.NamedKey("carol")
	pauper    = pubkey.NamedKey("pauper")
)

func TestMain(m *testing.M) {
	// exercise the real counters rather than the noop meters
	metrics.InitializePrometheusMetrics()
	os.Exit(m.Run())
}

type env struct {
	t      *testing.T
	rt     *runtime.Runtime
	clock  *sysvar.ManualClock
	reader *staking.Reader
	nonce  atomic.Uint64
}

func newEnv(t *testing.T) *env {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater := ledger.NewStater(db, 1)
	st := stater.NewState()
	for _, k := range []pubkey.Key{alice, bob, carol, authority} {
		st.SetAccount(k, &ledger.Account{Balance: 1e9})
	}
	st.SetAccount(pauper, &ledger.Account{Balance: 10})
	for _, m := range []pubkey.Key{mint, otherMint} {
		st.SetAccount(m, &ledger.Account{
			Owner:   token.ProgramID,
			Balance: 1e6,
			Data:    (&token.Mint{Authority: mintAuth, Decimals: 9}).Encode(),
		})
	}
	require.NoError(t, stater.Commit(st))

	clock := sysvar.NewManualClock(0)
	rt := runtime.New(stater, clock, sysvar.DefaultRent(),
		system.Program(), token.Program(), token.AssociatedProgram(), staking.Program())
	return &env{t: t, rt: rt, clock: clock, reader: staking.NewReader(stater)}
}

func (e *env) build(ixs ...*tx.Instruction) *tx.Transaction {
	b := new(tx.Builder).Nonce(e.nonce.Add(1))
	for _, ix := range ixs {
		b.Instruction(ix)
	}
	return b.Build()
}

func (e *env) exec(ixs ...*tx.Instruction) *tx.Receipt {
	receipt, err := e.rt.Execute(context.Background(), e.build(ixs...))
	require.NoError(e.t, err)
	return receipt
}

func (e *env) mustExec(ixs ...*tx.Instruction) *tx.Receipt {
	r := e.exec(ixs...)
	require.False(e.t, r.Reverted, r.Error)
	return r
}

func (e *env) assertCode(r *tx.Receipt, code staking.Code) {
	e.t.Helper()
	require.True(e.t, r.Reverted, "expected %v", code)
	assert.Equal(e.t, uint32(code), r.ErrorCode, r.Error)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func holderOf(owner, m pubkey.Key) pubkey.Key {
	addr, _, err := token.FindAssociatedAddress(owner, m)
	if err != nil {
		panic(err)
	}
	return addr
}

func poolOf(m pubkey.Key) pubkey.Key {
	addr, _, err := staking.FindPoolAddress(m)
	if err != nil {
		panic(err)
	}
	return addr
}

func (e *env) createPool(m pubkey.Key, rate uint64, lock int64) {
	e.mustExec(must(staking.NewCreatePoolInstruction(authority, authority, m, rate, lock)))
}

// fund creates owner's token account of mint and mints amount into it.
func (e *env) fund(owner pubkey.Key, amount uint64) {
	e.mustExec(
		must(token.NewCreateAssociatedInstruction(owner, owner, mint)),
		token.NewMintToInstruction(mint, holderOf(owner, mint), mintAuth, amount),
	)
}

func (e *env) fundReserve(amount uint64) {
	custody := must(staking.FindCustodyAddress(poolOf(mint), mint))
	e.mustExec(token.NewMintToInstruction(mint, custody, mintAuth, amount))
}

func (e *env) createUser(owner pubkey.Key) {
	e.mustExec(must(staking.NewCreateUserRecordInstruction(owner, owner, mint)))
}

func (e *env) stake(owner pubkey.Key, amount uint64) *tx.Receipt {
	return e.exec(must(staking.NewStakeInstruction(owner, holderOf(owner, mint), mint, amount)))
}

func (e *env) claim(owner pubkey.Key) *tx.Receipt {
	return e.exec(must(staking.NewClaimRewardsInstruction(owner, holderOf(owner, mint), mint)))
}

func (e *env) unstake(owner pubkey.Key) *tx.Receipt {
	return e.exec(must(staking.NewUnstakeInstruction(owner, holderOf(owner, mint), mint)))
}

func (e *env) pool() *staking.PoolView {
	return must(e.reader.Pool(mint))
}

func (e *env) user(owner pubkey.Key) *staking.UserView {
	return must(e.reader.User(mint, owner, e.clock.Now()))
}

func (e *env) balance(owner pubkey.Key) uint64 {
	acc := must(e.rt.Stater().GetAccount(holderOf(owner, mint)))
	return must(token.DecodeAccount(acc.Data)).Amount
}

// rewrite edits a committed account outside any transaction.
func (e *env) rewrite(key pubkey.Key, edit func(acc *ledger.Account)) {
	st := e.rt.Stater().NewState()
	acc := must(st.GetAccount(key))
	edit(acc)
	st.SetAccount(key, acc)
	require.NoError(e.t, e.rt.Stater().Commit(st))
}

// assertTotalStaked checks the pool total against the sum of user amounts.
func (e *env) assertTotalStaked(owners ...pubkey.Key) {
	e.t.Helper()
	var sum uint64
	for _, o := range owners {
		sum += e.user(o).Amount
	}
	assert.Equal(e.t, sum, e.pool().TotalStaked)
}

func TestCreatePool(t *testing.T) {
	e := newEnv(t)
	r := e.mustExec(must(staking.NewCreatePoolInstruction(alice, authority, mint, 5_000_000, 10)))
	assert.Contains(t, r.Logs[len(r.Logs)-1], "staking: pool")

	view := e.pool()
	assert.Equal(t, poolOf(mint), view.Address)
	assert.Equal(t, authority, view.Authority)
	assert.Equal(t, uint64(5_000_000), view.RewardRate)
	assert.Equal(t, int64(10), view.MinLockPeriod)
	assert.Equal(t, uint64(0), view.TotalStaked)
	assert.Equal(t, must(staking.FindCustodyAddress(view.Address, mint)), view.Custody)

	raw := must(e.rt.Stater().GetAccount(view.Address))
	assert.Equal(t, staking.ProgramID, raw.Owner)
	assert.True(t, e.rt.Rent().IsExempt(raw.Balance, len(raw.Data)))

	custody := must(e.rt.Stater().GetAccount(view.Custody))
	assert.Equal(t, token.ProgramID, custody.Owner)
	ta := must(token.DecodeAccount(custody.Data))
	assert.Equal(t, &token.Account{Mint: mint, Owner: view.Address}, ta)

	e.assertCode(e.exec(must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 1))), staking.AlreadyInitialized)
}

func TestCreatePoolAcceptsExistingCustody(t *testing.T) {
	e := newEnv(t)
	pool := poolOf(mint)
	e.mustExec(must(token.NewCreateAssociatedInstruction(alice, pool, mint)))
	e.createPool(mint, 1, 0)
	assert.Equal(t, holderOf(pool, mint), e.pool().Custody)
}

func TestCreatePoolRejects(t *testing.T) {
	e := newEnv(t)

	poor := must(staking.NewCreatePoolInstruction(pauper, authority, mint, 1, 0))
	e.assertCode(e.exec(poor), staking.NotRentExempt)

	forged := must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 0))
	forged.Accounts[2].Key = pubkey.NamedKey("forged-pool")
	e.assertCode(e.exec(forged), staking.InvalidDerivation)

	wrongCustody := must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 0))
	wrongCustody.Accounts[4].Key = holderOf(alice, mint)
	e.assertCode(e.exec(wrongCustody), staking.InvalidDerivation)

	notMint := must(staking.NewCreatePoolInstruction(alice, authority, alice, 1, 0))
	e.assertCode(e.exec(notMint), staking.InvalidOwner)

	unsigned := must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 0))
	unsigned.Accounts[1].IsSigner = false
	e.assertCode(e.exec(unsigned), staking.Unauthorized)

	wrongProgram := must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 0))
	wrongProgram.Accounts[6].Key = system.ProgramID
	e.assertCode(e.exec(wrongProgram), staking.InvalidProgram)

	short := must(staking.NewCreatePoolInstruction(alice, authority, mint, 1, 0))
	short.Accounts = short.Accounts[:5]
	e.assertCode(e.exec(short), staking.NotEnoughAccounts)

	_, err := e.reader.Pool(mint)
	assert.ErrorIs(t, err, staking.ErrNotFound)
}

func TestCreateOnPrefundedAddresses(t *testing.T) {
	e := newEnv(t)
	pool := poolOf(mint)
	custody := must(staking.FindCustodyAddress(pool, mint))
	userAddr, _, err := staking.FindUserAddress(pool, alice)
	require.NoError(t, err)

	// anyone may send native balance to an address before it is created
	e.mustExec(
		system.NewTransferInstruction(bob, pool, 1),
		system.NewTransferInstruction(bob, custody, 1),
		system.NewTransferInstruction(bob, userAddr, 1),
	)

	e.createPool(mint, 1, 0)
	raw := must(e.rt.Stater().GetAccount(pool))
	assert.Equal(t, staking.ProgramID, raw.Owner)
	assert.Equal(t, e.rt.Rent().MinimumBalance(staking.PoolSize), raw.Balance)
	assert.Equal(t, custody, e.pool().Custody)

	e.createUser(alice)
	raw = must(e.rt.Stater().GetAccount(userAddr))
	assert.Equal(t, staking.ProgramID, raw.Owner)
	assert.Equal(t, e.rt.Rent().MinimumBalance(staking.UserSize), raw.Balance)
	assert.Equal(t, alice, e.user(alice).Owner)

	// an allocated record is still taken
	e.assertCode(e.exec(must(staking.NewCreateUserRecordInstruction(bob, alice, mint))), staking.AlreadyInitialized)
}

func TestUpdateConfig(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 5, 10)

	rate := uint64(7)
	e.mustExec(must(staking.NewUpdateConfigInstruction(authority, mint, &rate, nil)))
	assert.Equal(t, uint64(7), e.pool().RewardRate)
	assert.Equal(t, int64(10), e.pool().MinLockPeriod)

	lock := int64(60)
	e.mustExec(must(staking.NewUpdateConfigInstruction(authority, mint, nil, &lock)))
	assert.Equal(t, uint64(7), e.pool().RewardRate)
	assert.Equal(t, int64(60), e.pool().MinLockPeriod)

	// no-op update
	e.mustExec(must(staking.NewUpdateConfigInstruction(authority, mint, nil, nil)))
	assert.Equal(t, uint64(7), e.pool().RewardRate)
}

func TestUpdateConfigUnauthorized(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 5, 10)
	before := e.pool()

	rate, lock := uint64(1_000_000_000), int64(0)
	e.assertCode(e.exec(must(staking.NewUpdateConfigInstruction(bob, mint, &rate, &lock))), staking.Unauthorized)

	unsigned := must(staking.NewUpdateConfigInstruction(authority, mint, &rate, &lock))
	unsigned.Accounts[0].IsSigner = false
	e.assertCode(e.exec(unsigned), staking.Unauthorized)

	assert.Equal(t, before, e.pool())
}

func TestCreateUserRecord(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 5, 10)

	e.mustExec(must(staking.NewCreateUserRecordInstruction(bob, alice, mint)))
	u := e.user(alice)
	assert.Equal(t, alice, u.Owner)
	assert.Equal(t, poolOf(mint), u.Pool)
	assert.False(t, u.IsActive())

	e.assertCode(e.exec(must(staking.NewCreateUserRecordInstruction(alice, alice, mint))), staking.AlreadyInitialized)
	e.assertCode(e.exec(must(staking.NewCreateUserRecordInstruction(pauper, bob, mint))), staking.NotRentExempt)

	forged := must(staking.NewCreateUserRecordInstruction(bob, bob, mint))
	forged.Accounts[3].Key = must(staking.NewCreateUserRecordInstruction(alice, carol, mint)).Accounts[3].Key
	e.assertCode(e.exec(forged), staking.InvalidDerivation)

	_, err := e.reader.User(mint, bob, 0)
	assert.ErrorIs(t, err, staking.ErrNotFound)
}

func TestRewardScenario(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 5_000_000, 10)
	e.fundReserve(10_000_000_000)
	e.fund(alice, 100_000_000_000)
	e.createUser(alice)

	r := e.stake(alice, 100_000_000_000)
	require.False(t, r.Reverted, r.Error)
	assert.Contains(t, r.Logs, "staking: staked 100000000000")
	assert.Equal(t, uint64(0), e.balance(alice))
	assert.Equal(t, uint64(100_000_000_000), e.pool().TotalStaked)

	e.clock.Set(10)
	assert.Equal(t, uint64(5_000_000_000), e.user(alice).Pending)

	r = e.claim(alice)
	require.False(t, r.Reverted, r.Error)
	assert.Equal(t, uint64(5_000_000_000), e.balance(alice))
	u := e.user(alice)
	assert.Equal(t, uint64(5_000_000_000), u.RewardsClaimed)
	assert.Equal(t, int64(10), u.LastClaimTime)
	assert.Equal(t, int64(0), u.StartTime)
	assert.Equal(t, uint64(0), u.Pending)

	// claiming again at the same instant pays nothing
	require.False(t, e.claim(alice).Reverted)
	assert.Equal(t, uint64(5_000_000_000), e.balance(alice))

	pool := e.pool()
	assert.Equal(t, uint64(105_000_000_000), pool.CustodyBalance)
	assert.Equal(t, uint64(5_000_000_000), pool.RewardReserve)
}

func TestStakeUnstakeRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 1_000_000, 10)
	e.fundReserve(1_000_000)
	e.fund(alice, 1_000)
	e.createUser(alice)

	require.False(t, e.stake(alice, 600).Reverted)
	before := e.pool().TotalStaked

	e.clock.Set(15)
	r := e.unstake(alice)
	require.False(t, r.Reverted, r.Error)

	u := e.user(alice)
	assert.Equal(t, uint64(0), u.Amount)
	assert.Equal(t, int64(15), u.LastClaimTime)
	assert.Equal(t, before-600, e.pool().TotalStaked)
	// principal back plus 15*600*1e6/1e9 = 9 reward
	assert.Equal(t, uint64(1_000+9), e.balance(alice))
	assert.Equal(t, uint64(9), u.RewardsClaimed)

	e.assertCode(e.unstake(alice), staking.NoActiveStake)
	e.assertCode(e.claim(alice), staking.NoActiveStake)

	// restake after a full exit
	require.False(t, e.stake(alice, 1_009).Reverted)
	assert.Equal(t, int64(15), e.user(alice).StartTime)
}

func TestUnstakeBeforeLock(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 1_000_000, 10)
	e.fundReserve(1_000_000)
	e.fund(alice, 1_000)
	e.createUser(alice)
	require.False(t, e.stake(alice, 1_000).Reverted)

	for _, now := range []int64{0, 5, 9} {
		e.clock.Set(now)
		pool, user := e.pool(), e.user(alice)
		e.assertCode(e.unstake(alice), staking.LockNotExpired)
		assert.Equal(t, pool, e.pool())
		assert.Equal(t, user, e.user(alice))
	}

	// clock going backwards neither pays nor unlocks
	e.clock.Set(-100)
	e.assertCode(e.unstake(alice), staking.LockNotExpired)
	require.False(t, e.claim(alice).Reverted)
	assert.Equal(t, uint64(0), e.balance(alice))
	assert.Equal(t, int64(0), e.user(alice).LastClaimTime)

	e.clock.Set(10)
	require.False(t, e.unstake(alice).Reverted)
}

func TestUnstakeWithoutLockBehindClock(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 0, 0)
	e.fund(alice, 100)
	e.createUser(alice)
	e.clock.Set(10)
	require.False(t, e.stake(alice, 100).Reverted)

	e.clock.Set(5)
	e.assertCode(e.unstake(alice), staking.LockNotExpired)
	assert.Equal(t, uint64(100), e.user(alice).Amount)
	assert.Equal(t, uint64(100), e.pool().TotalStaked)

	e.clock.Set(10)
	require.False(t, e.unstake(alice).Reverted)
	assert.Equal(t, uint64(100), e.balance(alice))
}

func TestStakeBeyondInt64(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 0, 0)
	big := uint64(math.MaxInt64) + 1
	e.fund(alice, big)
	e.createUser(alice)

	r := e.stake(alice, big)
	require.False(t, r.Reverted, r.Error)
	assert.Equal(t, big, e.pool().TotalStaked)

	r = e.unstake(alice)
	require.False(t, r.Reverted, r.Error)
	assert.Equal(t, big, e.balance(alice))
	assert.Equal(t, uint64(0), e.pool().TotalStaked)
}

func TestClaimOverflow(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, rewardRateOne, 0)
	e.fund(alice, 1<<62)
	e.createUser(alice)
	require.False(t, e.stake(alice, 1<<62).Reverted)

	// 8s at one unit per unit per second owes 2^65
	e.clock.Set(8)
	before := e.user(alice)
	assert.True(t, before.PendingOverflow)
	assert.Equal(t, uint64(math.MaxUint64), before.Pending)
	e.assertCode(e.claim(alice), staking.ArithmeticOverflow)
	e.assertCode(e.unstake(alice), staking.ArithmeticOverflow)
	assert.Equal(t, before, e.user(alice))
	assert.Equal(t, uint64(1<<62), e.pool().TotalStaked)
	assert.Equal(t, uint64(0), e.balance(alice))

	// lowering the rate lets the position settle
	zero := uint64(0)
	e.mustExec(must(staking.NewUpdateConfigInstruction(authority, mint, &zero, nil)))
	require.False(t, e.unstake(alice).Reverted)
	assert.Equal(t, uint64(1<<62), e.balance(alice))
}

func TestStakeOverflow(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 1, 0)
	e.fund(alice, 10)
	e.createUser(alice)

	near := uint64(math.MaxUint64 - 5)
	e.rewrite(poolOf(mint), func(acc *ledger.Account) {
		p := must(staking.DecodePool(acc.Data))
		p.TotalStaked = near
		p.EncodeTo(acc.Data)
	})

	e.assertCode(e.stake(alice, 10), staking.ArithmeticOverflow)
	assert.Equal(t, near, e.pool().TotalStaked)
	assert.Equal(t, uint64(10), e.balance(alice))
	assert.False(t, e.user(alice).IsActive())

	require.False(t, e.stake(alice, 5).Reverted)
	assert.Equal(t, uint64(math.MaxUint64), e.pool().TotalStaked)
}

func TestStakeRejects(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 1, 0)
	e.fund(alice, 100)
	e.createUser(alice)

	e.assertCode(e.stake(alice, 0), staking.ZeroAmount)
	e.assertCode(e.stake(alice, 101), staking.InsufficientFunds)

	require.False(t, e.stake(alice, 60).Reverted)
	e.clock.Set(5)
	before := e.user(alice)
	e.assertCode(e.stake(alice, 40), staking.DoubleStake)
	after := e.user(alice)
	assert.Equal(t, before.Amount, after.Amount)
	assert.Equal(t, before.StartTime, after.StartTime)
	assert.Equal(t, uint64(40), e.balance(alice))

	// no user record
	e.fund(bob, 10)
	e.assertCode(e.stake(bob, 10), staking.InvalidOwner)
}

func TestForgedAccounts(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 1, 0)
	e.createPool(otherMint, 1, 0)
	e.fund(alice, 100)
	e.fund(bob, 100)
	e.createUser(alice)
	e.createUser(bob)

	stakeIx := func() *tx.Instruction {
		return must(staking.NewStakeInstruction(alice, holderOf(alice, mint), mint, 10))
	}

	tests := []struct {
		name   string
		forge  func(ix *tx.Instruction)
		expect staking.Code
	}{
		{"pool of another mint", func(ix *tx.Instruction) { ix.Accounts[3].Key = poolOf(otherMint) }, staking.InvalidDerivation},
		{"pool not owned by program", func(ix *tx.Instruction) { ix.Accounts[3].Key = bob }, staking.InvalidOwner},
		{"someone else's user record", func(ix *tx.Instruction) { ix.Accounts[4] = tx.NewAccountMeta(e.user(bob).Address, false) }, staking.InvalidDerivation},
		{"custody swapped for a token account", func(ix *tx.Instruction) { ix.Accounts[5].Key = holderOf(bob, mint) }, staking.InvalidDerivation},
		{"holder of another owner", func(ix *tx.Instruction) { ix.Accounts[1].Key = holderOf(bob, mint) }, staking.InvalidOwner},
		{"owner not signing", func(ix *tx.Instruction) { ix.Accounts[0].IsSigner = false }, staking.Unauthorized},
		{"read-only pool", func(ix *tx.Instruction) { ix.Accounts[3].IsWritable = false }, staking.AccountFlagsMismatch},
		{"fake token program", func(ix *tx.Instruction) { ix.Accounts[6].Key = system.ProgramID }, staking.InvalidProgram},
		{"mint swapped", func(ix *tx.Instruction) { ix.Accounts[2].Key = otherMint }, staking.InvalidDerivation},
		{"truncated account list", func(ix *tx.Instruction) { ix.Accounts = ix.Accounts[:6] }, staking.NotEnoughAccounts},
		{"trailing account", func(ix *tx.Instruction) { ix.Accounts = append(ix.Accounts, tx.NewReadonlyAccountMeta(carol, false)) }, staking.InvalidInstruction},
		{"writable mint", func(ix *tx.Instruction) { ix.Accounts[2].IsWritable = true }, staking.AccountFlagsMismatch},
		{"signing pool", func(ix *tx.Instruction) { ix.Accounts[3].IsSigner = true }, staking.AccountFlagsMismatch},
		{"writable token program", func(ix *tx.Instruction) { ix.Accounts[6].IsWritable = true }, staking.AccountFlagsMismatch},
		{"bad data", func(ix *tx.Instruction) { ix.Data = append(ix.Data, 0) }, staking.InvalidInstruction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := stakeIx()
			tt.forge(ix)
			e.assertCode(e.exec(ix), tt.expect)
			assert.Equal(t, uint64(0), e.pool().TotalStaked)
			assert.Equal(t, uint64(100), e.balance(alice))
		})
	}

	// the untampered instruction still works
	require.False(t, e.exec(stakeIx()).Reverted)
}

func TestClaimRejectsWidenedPrivileges(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, rewardRateOne, 0)
	e.fundReserve(1_000)
	e.fund(alice, 100)
	e.createUser(alice)
	require.False(t, e.stake(alice, 100).Reverted)
	e.clock.Set(3)

	ix := must(staking.NewClaimRewardsInstruction(alice, holderOf(alice, mint), mint))
	ix.Accounts[2].IsWritable = true
	ix.Accounts[3].IsWritable = true
	e.assertCode(e.exec(ix), staking.AccountFlagsMismatch)
	assert.Equal(t, uint64(0), e.balance(alice))
	assert.Equal(t, int64(0), e.user(alice).LastClaimTime)

	require.False(t, e.claim(alice).Reverted)
	assert.Equal(t, uint64(300), e.balance(alice))
}

func TestClaimFromUnfundedReserve(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, rewardRateOne, 0)
	e.fund(alice, 100)
	e.fund(bob, 100)
	e.createUser(alice)
	e.createUser(bob)
	require.False(t, e.stake(alice, 100).Reverted)
	require.False(t, e.stake(bob, 100).Reverted)

	// rewards never come out of another staker's principal
	e.clock.Set(1)
	e.assertCode(e.claim(alice), staking.InsufficientVaultBalance)
	e.assertCode(e.unstake(alice), staking.InsufficientVaultBalance)
	assert.Equal(t, int64(0), e.user(alice).LastClaimTime)

	e.fundReserve(100)
	require.False(t, e.claim(alice).Reverted)
	assert.Equal(t, uint64(100), e.balance(alice))

	// zero rate lets stakers exit an empty reserve
	zero := uint64(0)
	e.mustExec(must(staking.NewUpdateConfigInstruction(authority, mint, &zero, nil)))
	e.clock.Set(50)
	require.False(t, e.unstake(bob).Reverted)
	assert.Equal(t, uint64(100), e.balance(bob))
}

// rewardRateOne pays one unit per staked unit per second.
const rewardRateOne = staking.RewardScale

func TestConcurrentStakes(t *testing.T) {
	for _, reversed := range []bool{false, true} {
		e := newEnv(t)
		e.createPool(mint, 1, 0)
		owners := []pubkey.Key{alice, bob, carol}
		amounts := []uint64{11, 222, 3_333}
		for _, o := range owners {
			e.fund(o, 10_000)
			e.createUser(o)
		}

		var txs []*tx.Transaction
		for i, o := range owners {
			txs = append(txs, e.build(must(staking.NewStakeInstruction(o, holderOf(o, mint), mint, amounts[i]))))
		}
		if reversed {
			txs[0], txs[2] = txs[2], txs[0]
		}
		receipts, err := e.rt.ExecuteBatch(context.Background(), txs)
		require.NoError(t, err)
		for _, r := range receipts {
			require.False(t, r.Reverted, r.Error)
		}
		assert.Equal(t, uint64(11+222+3_333), e.pool().TotalStaked)
		e.assertTotalStaked(owners...)
	}
}

func TestTotalStakedInvariant(t *testing.T) {
	e := newEnv(t)
	e.createPool(mint, 2_000_000, 3)
	e.fundReserve(1_000_000)
	owners := []pubkey.Key{alice, bob, carol}
	for _, o := range owners {
		e.fund(o, 1_000_000)
		e.createUser(o)
	}

	steps := []struct {
		op     string
		owner  pubkey.Key
		amount uint64
	}{
		{"stake", alice, 500},
		{"stake", bob, 70_000},
		{"claim", alice, 0},
		{"stake", carol, 1},
		{"unstake", bob, 0},
		{"stake", bob, 9},
		{"claim", carol, 0},
		{"unstake", alice, 0},
		{"stake", alice, 999_000},
		{"unstake", carol, 0},
		{"claim", bob, 0},
		{"unstake", alice, 0},
	}
	for i, s := range steps {
		e.clock.Advance(2)
		var r *tx.Receipt
		switch s.op {
		case "stake":
			r = e.stake(s.owner, s.amount)
		case "claim":
			r = e.claim(s.owner)
		case "unstake":
			r = e.unstake(s.owner)
		}
		require.NotNil(t, r)
		// early unstakes are expected to fail, the invariant holds either way
		if r.Reverted {
			assert.Equal(t, uint32(staking.LockNotExpired), r.ErrorCode, "step %d: %s", i, r.Error)
		}
		e.assertTotalStaked(owners...)
	}
}
