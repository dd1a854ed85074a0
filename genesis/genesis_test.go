// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/genesis"
	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/token"
)

func TestDevGenesis(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	gen := genesis.NewDevnet()
	assert.Equal(t, gen.ID(), genesis.NewDevnet().ID())

	stater := ledger.NewStater(db, 1)
	require.NoError(t, gen.Build(db, stater))
	// idempotent
	require.NoError(t, gen.Build(db, stater))

	devs := genesis.DevAccounts()
	require.Len(t, devs, 10)
	assert.True(t, pubkey.IsOnCurve(devs[0].Key))

	acc, err := stater.GetAccount(devs[3].Key)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000), acc.Balance)

	mintAcc, err := stater.GetAccount(genesis.DevMint)
	require.NoError(t, err)
	mint, err := token.DecodeMint(mintAcc.Data)
	require.NoError(t, err)
	assert.Equal(t, devs[0].Key, mint.Authority)
	assert.Equal(t, uint64(10*1_000_000_000_000_000), mint.Supply)

	ata, _, err := token.FindAssociatedAddress(devs[3].Key, genesis.DevMint)
	require.NoError(t, err)
	holderAcc, err := stater.GetAccount(ata)
	require.NoError(t, err)
	holder, err := token.DecodeAccount(holderAcc.Data)
	require.NoError(t, err)
	assert.Equal(t, devs[3].Key, holder.Owner)
	assert.Equal(t, uint64(1_000_000_000_000_000), holder.Amount)
	assert.True(t, gen.Rent().IsExempt(holderAcc.Balance, len(holderAcc.Data)))
}

func TestGenesisMismatch(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater := ledger.NewStater(db, 1)

	require.NoError(t, genesis.NewDevnet().Build(db, stater))

	other, err := genesis.NewCustomNet(&genesis.CustomGenesis{
		Name:     "other",
		Accounts: []genesis.Account{{Key: pubkey.NamedKey("a"), Balance: 1}},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, other.Build(db, stater), genesis.ErrMismatch)
}

func TestLoadCustomNet(t *testing.T) {
	alice := pubkey.NamedKey("alice")
	content := `name: staging
rent:
  perByteYear: 10
  exemptionYears: 1
accounts:
  - key: ` + alice.String() + `
    balance: 5000
mints:
  - name: reward-token
    authority: ` + alice.String() + `
    decimals: 6
    holders:
      - owner: ` + alice.String() + `
        amount: 700
`
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	gen, err := genesis.LoadCustomNet(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", gen.Name())
	assert.Equal(t, uint64(10), gen.Rent().PerByteYear)

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	stater := ledger.NewStater(db, 1)
	require.NoError(t, gen.Build(db, stater))

	mintAcc, err := stater.GetAccount(pubkey.NamedKey("reward-token"))
	require.NoError(t, err)
	mint, err := token.DecodeMint(mintAcc.Data)
	require.NoError(t, err)
	assert.Equal(t, uint64(700), mint.Supply)
	assert.Equal(t, uint8(6), mint.Decimals)
}

func TestCustomNetRejects(t *testing.T) {
	alice := pubkey.NamedKey("alice")
	tests := []struct {
		name string
		gen  *genesis.CustomGenesis
	}{
		{"no name", &genesis.CustomGenesis{}},
		{"zero balance", &genesis.CustomGenesis{Name: "x", Accounts: []genesis.Account{{Key: alice}}}},
		{"duplicate", &genesis.CustomGenesis{Name: "x", Accounts: []genesis.Account{{Key: alice, Balance: 1}, {Key: alice, Balance: 2}}}},
		{"no authority", &genesis.CustomGenesis{Name: "x", Mints: []genesis.Mint{{Name: "m"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := genesis.NewCustomNet(tt.gen)
			assert.Error(t, err)
		})
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: x\nunknown: 1\n"), 0o600))
	_, err := genesis.LoadCustomNet(path)
	assert.Error(t, err)
}
