// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/token"
)

// slot is the expected position and privileges of one instruction account.
type slot struct {
	name     string
	signer   bool
	writable bool
}

// Account layouts. The index constants below address them.
var (
	createPoolLayout = []slot{
		{"payer", true, true},
		{"authority", true, false},
		{"pool", false, true},
		{"mint", false, false},
		{"custody", false, true},
		{"system program", false, false},
		{"token program", false, false},
		{"associated token program", false, false},
	}
	updateConfigLayout = []slot{
		{"authority", true, false},
		{"pool", false, true},
		{"mint", false, false},
	}
	createUserLayout = []slot{
		{"payer", true, true},
		{"owner", true, false},
		{"pool", false, false},
		{"user", false, true},
		{"system program", false, false},
	}
	// shared by stake, claim and unstake; the pool is writable only for stake and unstake
	positionLayout = func(poolWritable bool) []slot {
		return []slot{
			{"owner", true, false},
			{"holder", false, true},
			{"mint", false, false},
			{"pool", false, poolWritable},
			{"user", false, true},
			{"custody", false, true},
			{"token program", false, false},
		}
	}
)

const (
	cpPayer = iota
	cpAuthority
	cpPool
	cpMint
	cpCustody
	cpSystem
	cpToken
	cpAssociated
)

const (
	ucAuthority = iota
	ucPool
	ucMint
)

const (
	cuPayer = iota
	cuOwner
	cuPool
	cuUser
	cuSystem
)

const (
	psOwner = iota
	psHolder
	psMint
	psPool
	psUser
	psCustody
	psToken
)

// validation carries the accounts of one instruction and the records
// resolved by its checks.
type validation struct {
	rent     func(dataLen int) uint64
	accounts []*runtime.AccountInfo

	mint     *token.Mint
	pool     *Pool
	poolBump uint8
	user     *User
	userBump uint8
	custody  *token.Account // nil while the custody account does not exist
	holder   *token.Account
}

// check is one named rule. Checks of an operation run in order and the
// first failure aborts the instruction before any mutation.
type check struct {
	name string
	fn   func(v *validation) error
}

func validate(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, checks []check) (*validation, error) {
	rent := ctx.Rent()
	v := &validation{rent: rent.MinimumBalance, accounts: accounts}
	for _, c := range checks {
		if err := c.fn(v); err != nil {
			logger.Trace("check failed", "check", c.name, "err", err)
			return nil, err
		}
	}
	return v, nil
}

// layout checks the account count and that every slot carries exactly the
// privileges it declares. A missing required signature is Unauthorized.
func layout(slots []slot) check {
	return check{"layout", func(v *validation) error {
		if len(v.accounts) < len(slots) {
			return newError(NotEnoughAccounts, "want %d accounts, got %d", len(slots), len(v.accounts))
		}
		if len(v.accounts) > len(slots) {
			return newError(InvalidInstruction, "want %d accounts, got %d", len(slots), len(v.accounts))
		}
		for i, s := range slots {
			if s.signer && !v.accounts[i].IsSigner {
				return newError(Unauthorized, "%s must sign", s.name)
			}
		}
		for i, s := range slots {
			info := v.accounts[i]
			if info.IsWritable != s.writable {
				return newError(AccountFlagsMismatch, "%s writable %v, want %v", s.name, info.IsWritable, s.writable)
			}
			if info.IsSigner != s.signer {
				return newError(AccountFlagsMismatch, "%s signer %v, want %v", s.name, info.IsSigner, s.signer)
			}
		}
		return nil
	}}
}

func fixedSizes(sizes ...int) func(*validation) []int {
	return func(*validation) []int { return sizes }
}

func programAccount(i int, id pubkey.Key) check {
	return check{"program", func(v *validation) error {
		if v.accounts[i].Key != id {
			return newError(InvalidProgram, "account %d is %v, want %v", i, v.accounts[i].Key, id)
		}
		return nil
	}}
}

func mintAccount(i int) check {
	return check{"mint", func(v *validation) error {
		info := v.accounts[i]
		if info.Owner != token.ProgramID {
			return newError(InvalidOwner, "mint %v not owned by token program", info.Key)
		}
		m, err := token.DecodeMint(info.Data)
		if err != nil {
			return newError(InvalidMint, "%v", info.Key)
		}
		v.mint = m
		return nil
	}}
}

func uninitialized(i int) check {
	return check{"uninitialized", func(v *validation) error {
		if info := v.accounts[i]; !info.IsUnallocated() {
			return newError(AlreadyInitialized, "%v", info.Key)
		}
		return nil
	}}
}

// rentAffordable checks the payer can fund the rent exemption of the
// accounts to be created.
func rentAffordable(payer int, sizes func(v *validation) []int) check {
	return check{"rent", func(v *validation) error {
		var need uint64
		for _, size := range sizes(v) {
			n, err := checkedAdd(need, v.rent(size))
			if err != nil {
				return err
			}
			need = n
		}
		if bal := v.accounts[payer].Balance; bal < need {
			return newError(NotRentExempt, "payer holds %d, needs %d", bal, need)
		}
		return nil
	}}
}

// derivedPool checks the pool account is the canonical address of the mint.
func derivedPool(pool, mint int) check {
	return check{"pool address", func(v *validation) error {
		addr, bump, err := FindPoolAddress(v.accounts[mint].Key)
		if err != nil {
			return newError(InvalidDerivation, "%v", err)
		}
		if addr != v.accounts[pool].Key {
			return newError(InvalidDerivation, "pool %v, want %v", v.accounts[pool].Key, addr)
		}
		v.poolBump = bump
		return nil
	}}
}

// derivedCustody checks the custody account address and accepts it when it
// is either unused or already a custody of the pool for the mint.
func derivedCustody(custody, pool, mint int) check {
	return check{"custody address", func(v *validation) error {
		info := v.accounts[custody]
		addr, err := FindCustodyAddress(v.accounts[pool].Key, v.accounts[mint].Key)
		if err != nil {
			return newError(InvalidDerivation, "%v", err)
		}
		if addr != info.Key {
			return newError(InvalidDerivation, "custody %v, want %v", info.Key, addr)
		}
		if info.IsUnallocated() {
			return nil
		}
		ta, err := tokenAccount(info, v.accounts[mint].Key, v.accounts[pool].Key)
		if err != nil {
			return err
		}
		v.custody = ta
		return nil
	}}
}

// poolRecord loads the pool and checks it against the mint's derivation.
func poolRecord(pool, mint int) check {
	return check{"pool", func(v *validation) error {
		info := v.accounts[pool]
		if info.Owner != ProgramID {
			return newError(InvalidOwner, "pool %v not owned by staking program", info.Key)
		}
		p, err := DecodePool(info.Data)
		if err != nil {
			return err
		}
		addr, err := poolAddressOf(v.accounts[mint].Key, p.Bump)
		if err != nil || addr != info.Key {
			return newError(InvalidDerivation, "pool %v is not the pool of mint %v", info.Key, v.accounts[mint].Key)
		}
		v.pool, v.poolBump = p, p.Bump
		return nil
	}}
}

// poolOnly loads a pool whose mint is not among the accounts.
func poolOnly(pool int) check {
	return check{"pool", func(v *validation) error {
		info := v.accounts[pool]
		if info.Owner != ProgramID {
			return newError(InvalidOwner, "pool %v not owned by staking program", info.Key)
		}
		p, err := DecodePool(info.Data)
		if err != nil {
			return err
		}
		v.pool, v.poolBump = p, p.Bump
		return nil
	}}
}

func poolAuthority(authority int) check {
	return check{"pool authority", func(v *validation) error {
		if v.pool.Authority != v.accounts[authority].Key {
			return newError(Unauthorized, "%v is not the pool authority", v.accounts[authority].Key)
		}
		return nil
	}}
}

// derivedUser checks the user account is the canonical address for
// (pool, owner).
func derivedUser(user, pool, owner int) check {
	return check{"user address", func(v *validation) error {
		addr, bump, err := FindUserAddress(v.accounts[pool].Key, v.accounts[owner].Key)
		if err != nil {
			return newError(InvalidDerivation, "%v", err)
		}
		if addr != v.accounts[user].Key {
			return newError(InvalidDerivation, "user %v, want %v", v.accounts[user].Key, addr)
		}
		v.userBump = bump
		return nil
	}}
}

// userRecord loads the user ledger and cross-checks its stored pool and owner.
func userRecord(user, pool, owner int) check {
	return check{"user", func(v *validation) error {
		info := v.accounts[user]
		if info.Owner != ProgramID {
			return newError(InvalidOwner, "user %v not owned by staking program", info.Key)
		}
		u, err := DecodeUser(info.Data)
		if err != nil {
			return err
		}
		if u.Pool != v.accounts[pool].Key {
			return newError(InvalidDerivation, "user %v belongs to pool %v", info.Key, u.Pool)
		}
		if u.Owner != v.accounts[owner].Key {
			return newError(Unauthorized, "user %v belongs to %v", info.Key, u.Owner)
		}
		v.user = u
		return nil
	}}
}

// poolCustody checks the custody account is the one recorded in the pool.
func poolCustody(custody, pool, mint int) check {
	return check{"custody", func(v *validation) error {
		info := v.accounts[custody]
		if info.Key != v.pool.Custody {
			return newError(InvalidDerivation, "custody %v, pool records %v", info.Key, v.pool.Custody)
		}
		ta, err := tokenAccount(info, v.accounts[mint].Key, v.accounts[pool].Key)
		if err != nil {
			return err
		}
		v.custody = ta
		return nil
	}}
}

// holderAccount checks the depositor's token account belongs to owner and mint.
func holderAccount(holder, owner, mint int) check {
	return check{"holder", func(v *validation) error {
		ta, err := tokenAccount(v.accounts[holder], v.accounts[mint].Key, v.accounts[owner].Key)
		if err != nil {
			return err
		}
		v.holder = ta
		return nil
	}}
}

func tokenAccount(info *runtime.AccountInfo, mint, owner pubkey.Key) (*token.Account, error) {
	if info.Owner != token.ProgramID {
		return nil, newError(InvalidOwner, "%v not owned by token program", info.Key)
	}
	ta, err := token.DecodeAccount(info.Data)
	if err != nil || !ta.IsInitialized() {
		return nil, newError(InvalidAccountData, "%v is not a token account", info.Key)
	}
	if ta.Mint != mint {
		return nil, newError(InvalidMint, "%v holds mint %v", info.Key, ta.Mint)
	}
	if ta.Owner != owner {
		return nil, newError(InvalidOwner, "%v owned by %v", info.Key, ta.Owner)
	}
	return ta, nil
}

// Check lists per operation.
var (
	createPoolChecks = []check{
		layout(createPoolLayout),
		programAccount(cpSystem, system.ProgramID),
		programAccount(cpToken, token.ProgramID),
		programAccount(cpAssociated, token.AssociatedProgramID),
		mintAccount(cpMint),
		derivedPool(cpPool, cpMint),
		uninitialized(cpPool),
		derivedCustody(cpCustody, cpPool, cpMint),
		rentAffordable(cpPayer, func(v *validation) []int {
			if v.custody == nil {
				return []int{PoolSize, token.AccountSize}
			}
			return []int{PoolSize}
		}),
	}
	updateConfigChecks = []check{
		layout(updateConfigLayout),
		mintAccount(ucMint),
		poolRecord(ucPool, ucMint),
		poolAuthority(ucAuthority),
	}
	createUserChecks = []check{
		layout(createUserLayout),
		programAccount(cuSystem, system.ProgramID),
		poolOnly(cuPool),
		derivedUser(cuUser, cuPool, cuOwner),
		uninitialized(cuUser),
		rentAffordable(cuPayer, fixedSizes(UserSize)),
	}
	stakeChecks   = positionChecks(true)
	claimChecks   = positionChecks(false)
	unstakeChecks = positionChecks(true)
)

func positionChecks(poolWritable bool) []check {
	return []check{
		layout(positionLayout(poolWritable)),
		programAccount(psToken, token.ProgramID),
		mintAccount(psMint),
		poolRecord(psPool, psMint),
		derivedUser(psUser, psPool, psOwner),
		userRecord(psUser, psPool, psOwner),
		poolCustody(psCustody, psPool, psMint),
		holderAccount(psHolder, psOwner, psMint),
	}
}
