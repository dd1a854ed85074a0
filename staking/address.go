// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/vechain/stakepool/cache"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/token"
)

// ProgramID is the id of the staking program.
var ProgramID = pubkey.NamedKey("stakepool/staking")

var (
	poolSeed = []byte("pool")
	userSeed = []byte("user")
)

// derivation is a derived address with its bump.
type derivation struct {
	addr pubkey.Key
	bump uint8
}

// derivations caches bump searches, which may hash many times.
var derivations = func() *cache.LRU[string, derivation] {
	c, err := cache.NewLRU[string, derivation](4096)
	if err != nil {
		panic(err)
	}
	return c
}()

func cacheKey(program pubkey.Key, seeds [][]byte) string {
	key := make([]byte, 0, 32+len(seeds)*33)
	key = append(key, program[:]...)
	for _, s := range seeds {
		key = append(key, byte(len(s)))
		key = append(key, s...)
	}
	return string(key)
}

func find(program pubkey.Key, seeds ...[]byte) (pubkey.Key, uint8, error) {
	d, err := derivations.GetOrLoad(cacheKey(program, seeds), func(string) (derivation, error) {
		addr, bump, err := pubkey.FindProgramAddress(seeds, program)
		return derivation{addr, bump}, err
	})
	return d.addr, d.bump, err
}

// PoolSeeds returns the signer seeds of the pool of mint, bump included.
func PoolSeeds(mint pubkey.Key, bump uint8) [][]byte {
	return [][]byte{poolSeed, mint[:], {bump}}
}

func userSeeds(pool, owner pubkey.Key, bump uint8) [][]byte {
	return [][]byte{userSeed, pool[:], owner[:], {bump}}
}

// FindPoolAddress returns the pool address of mint and its bump.
func FindPoolAddress(mint pubkey.Key) (pubkey.Key, uint8, error) {
	return find(ProgramID, poolSeed, mint[:])
}

// FindUserAddress returns the address of owner's ledger in pool and its bump.
func FindUserAddress(pool, owner pubkey.Key) (pubkey.Key, uint8, error) {
	return find(ProgramID, userSeed, pool[:], owner[:])
}

// FindCustodyAddress returns the custody token account address of pool.
func FindCustodyAddress(pool, mint pubkey.Key) (pubkey.Key, error) {
	d, err := derivations.GetOrLoad(cacheKey(token.AssociatedProgramID, [][]byte{pool[:], mint[:]}), func(string) (derivation, error) {
		addr, bump, err := token.FindAssociatedAddress(pool, mint)
		return derivation{addr, bump}, err
	})
	return d.addr, err
}

// poolAddressOf rebuilds the pool address from its stored bump.
func poolAddressOf(mint pubkey.Key, bump uint8) (pubkey.Key, error) {
	return pubkey.CreateProgramAddress(PoolSeeds(mint, bump), ProgramID)
}
