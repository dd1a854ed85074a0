// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/token"
)

func TestDerivedAddresses(t *testing.T) {
	mint := pubkey.NamedKey("mint")
	owner := pubkey.NamedKey("owner")

	pool, bump, err := FindPoolAddress(mint)
	require.NoError(t, err)
	assert.False(t, pubkey.IsOnCurve(pool))

	again, bump2, err := FindPoolAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, pool, again)
	assert.Equal(t, bump, bump2)

	signer, err := pubkey.CreateProgramAddress(PoolSeeds(mint, bump), ProgramID)
	require.NoError(t, err)
	assert.Equal(t, pool, signer)

	user, userBump, err := FindUserAddress(pool, owner)
	require.NoError(t, err)
	signer, err = pubkey.CreateProgramAddress(userSeeds(pool, owner, userBump), ProgramID)
	require.NoError(t, err)
	assert.Equal(t, user, signer)

	other, _, err := FindUserAddress(pool, mint)
	require.NoError(t, err)
	assert.NotEqual(t, user, other)

	custody, err := FindCustodyAddress(pool, mint)
	require.NoError(t, err)
	ata, _, err := token.FindAssociatedAddress(pool, mint)
	require.NoError(t, err)
	assert.Equal(t, ata, custody)
}

func TestDerivationCache(t *testing.T) {
	mint := pubkey.NamedKey("cached-mint")
	hits := derivations.Stats()

	_, _, err := FindPoolAddress(mint)
	require.NoError(t, err)
	before, _ := hits.Totals()

	_, _, err = FindPoolAddress(mint)
	require.NoError(t, err)
	after, _ := hits.Totals()
	assert.Equal(t, before+1, after)
}
