// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"math/bits"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/token"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name     string       `yaml:"name"`
	Rent     *sysvar.Rent `yaml:"rent"`
	Accounts []Account    `yaml:"accounts"`
	Mints    []Mint       `yaml:"mints"`
}

// Account is an identity funded with native balance.
type Account struct {
	Key     pubkey.Key `yaml:"key"`
	Balance uint64     `yaml:"balance"`
}

// Mint is a token type. Key defaults to the named key of Name.
type Mint struct {
	Name      string      `yaml:"name"`
	Key       *pubkey.Key `yaml:"key"`
	Authority pubkey.Key  `yaml:"authority"`
	Decimals  uint8       `yaml:"decimals"`
	Holders   []Holder    `yaml:"holders"`
}

// Holder receives tokens in its associated token account.
type Holder struct {
	Owner  pubkey.Key `yaml:"owner"`
	Amount uint64     `yaml:"amount"`
}

// LoadCustomNet reads a yaml genesis file.
func LoadCustomNet(path string) (*Genesis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()

	var gen CustomGenesis
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return NewCustomNet(&gen)
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.Name == "" {
		return nil, errors.New("name must be set")
	}
	rent := sysvar.DefaultRent()
	if gen.Rent != nil {
		rent = *gen.Rent
	}

	var (
		allocs []allocation
		seen   = make(map[pubkey.Key]bool)
	)
	add := func(key pubkey.Key, acc *ledger.Account) error {
		if key.IsZero() {
			return errors.New("zero key")
		}
		if seen[key] {
			return errors.Errorf("%v: allocated twice", key)
		}
		seen[key] = true
		allocs = append(allocs, allocation{key, acc})
		return nil
	}

	for _, a := range gen.Accounts {
		if a.Balance == 0 {
			return nil, errors.Errorf("%v: balance must be a non-zero integer", a.Key)
		}
		if err := add(a.Key, &ledger.Account{Balance: a.Balance}); err != nil {
			return nil, err
		}
	}

	for _, m := range gen.Mints {
		mintKey := pubkey.NamedKey(m.Name)
		if m.Key != nil {
			mintKey = *m.Key
		}
		if m.Authority.IsZero() {
			return nil, errors.Errorf("mint %v: authority must be set", mintKey)
		}

		mint := &token.Mint{Authority: m.Authority, Decimals: m.Decimals}
		for _, h := range m.Holders {
			supply, carry := bits.Add64(mint.Supply, h.Amount, 0)
			if carry != 0 {
				return nil, errors.Errorf("mint %v: supply overflow", mintKey)
			}
			mint.Supply = supply

			addr, _, err := token.FindAssociatedAddress(h.Owner, mintKey)
			if err != nil {
				return nil, err
			}
			holder := &token.Account{Mint: mintKey, Owner: h.Owner, Amount: h.Amount}
			if err := add(addr, &ledger.Account{
				Owner:   token.ProgramID,
				Balance: rent.MinimumBalance(token.AccountSize),
				Data:    holder.Encode(),
			}); err != nil {
				return nil, errors.WithMessagef(err, "mint %v holder %v", mintKey, h.Owner)
			}
		}
		if err := add(mintKey, &ledger.Account{
			Owner:   token.ProgramID,
			Balance: rent.MinimumBalance(token.MintSize),
			Data:    mint.Encode(),
		}); err != nil {
			return nil, errors.WithMessagef(err, "mint %v", mintKey)
		}
	}
	return newGenesis(gen.Name, rent, allocs)
}
