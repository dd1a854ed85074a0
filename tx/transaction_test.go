// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/tx"
)

var (
	program = pubkey.NamedKey("program")
	alice   = pubkey.NamedKey("alice")
	bob     = pubkey.NamedKey("bob")
)

func TestTransactionID(t *testing.T) {
	ix := tx.NewInstruction(program, []tx.AccountMeta{tx.NewAccountMeta(alice, true)}, []byte{1})

	a := new(tx.Builder).Instruction(ix).Nonce(1).Build()
	b := new(tx.Builder).Instruction(ix).Nonce(1).Build()
	c := new(tx.Builder).Instruction(ix).Nonce(2).Build()

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())

	data, err := rlp.EncodeToBytes(a)
	require.NoError(t, err)
	var decoded tx.Transaction
	require.NoError(t, rlp.DecodeBytes(data, &decoded))
	assert.Equal(t, a.ID(), decoded.ID())
	assert.Equal(t, uint64(1), decoded.Nonce())
}

func TestTransactionValidate(t *testing.T) {
	assert.Error(t, new(tx.Builder).Build().Validate())

	bad := tx.NewInstruction(program, []tx.AccountMeta{tx.NewReadonlyAccountMeta(program, true)}, nil)
	assert.Error(t, new(tx.Builder).Instruction(bad).Build().Validate())

	b := new(tx.Builder)
	for range tx.MaxInstructions + 1 {
		b.Instruction(tx.NewInstruction(program, nil, nil))
	}
	assert.Error(t, b.Build().Validate())
}

func TestAccountKeysMergesPrivileges(t *testing.T) {
	trx := new(tx.Builder).
		Instruction(tx.NewInstruction(program, []tx.AccountMeta{
			tx.NewReadonlyAccountMeta(alice, true),
			tx.NewReadonlyAccountMeta(bob, false),
		}, nil)).
		Instruction(tx.NewInstruction(program, []tx.AccountMeta{
			tx.NewAccountMeta(bob, false),
		}, nil)).
		Build()

	assert.Equal(t, []tx.AccountMeta{
		{Key: alice, IsSigner: true},
		{Key: bob, IsWritable: true},
	}, trx.AccountKeys())
}

func TestInstructionCopiesInput(t *testing.T) {
	data := []byte{1, 2}
	ix := tx.NewInstruction(program, nil, data)
	data[0] = 9
	assert.Equal(t, []byte{1, 2}, ix.Data)
}
