// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial ledger of a network.
package genesis

import (
	"bytes"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/kv"
	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/sysvar"
)

var logger = log.WithContext("pkg", "genesis")

var (
	metaBucket = kv.Bucket("m")
	genesisKey = []byte("genesis")
)

// ErrMismatch is returned by Build when the store was built from another genesis.
var ErrMismatch = errors.New("genesis mismatch")

type allocation struct {
	Key     pubkey.Key
	Account *ledger.Account
}

// Genesis is the initial ledger of a network.
type Genesis struct {
	name   string
	rent   sysvar.Rent
	allocs []allocation
	id     pubkey.Key
}

func newGenesis(name string, rent sysvar.Rent, allocs []allocation) (*Genesis, error) {
	data, err := rlp.EncodeToBytes([]any{name, rent.PerByteYear, rent.ExemptionYears, allocs})
	if err != nil {
		return nil, err
	}
	return &Genesis{
		name:   name,
		rent:   rent,
		allocs: allocs,
		id:     pubkey.Blake2b(data),
	}, nil
}

// ID returns the hash identifying this genesis.
func (g *Genesis) ID() pubkey.Key { return g.id }

// Name returns the network name.
func (g *Genesis) Name() string { return g.name }

// Rent returns the rent parameters of the network.
func (g *Genesis) Rent() sysvar.Rent { return g.rent }

// Build writes the initial accounts into an empty store. A store already
// built from this genesis is left as is; one built from another genesis
// fails with ErrMismatch.
func (g *Genesis) Build(store kv.Store, stater *ledger.Stater) error {
	stored, err := metaBucket.NewGetter(store).Get(genesisKey)
	if err == nil {
		if !bytes.Equal(stored, g.id[:]) {
			return errors.WithMessagef(ErrMismatch, "stored %v, want %v", pubkey.BytesToKey(stored), g.id)
		}
		return nil
	}
	if !store.IsNotFound(err) {
		return errors.Wrap(err, "read genesis id")
	}

	st := stater.NewState()
	for _, a := range g.allocs {
		st.SetAccount(a.Key, a.Account)
	}
	if err := stater.Commit(st); err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	if err := metaBucket.NewPutter(store).Put(genesisKey, g.id[:]); err != nil {
		return errors.Wrap(err, "write genesis id")
	}
	logger.Info("genesis built", "name", g.name, "id", g.id.AbbrevString(), "accounts", len(g.allocs))
	return nil
}
