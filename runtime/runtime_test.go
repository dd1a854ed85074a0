// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/tx"
)

var (
	testProgramID = pubkey.NamedKey("test-program")
	alice         = pubkey.NamedKey("alice")
	bob           = pubkey.NamedKey("bob")
	owned         = pubkey.NamedKey("owned")
)

const (
	opWriteData byte = iota
	opMintLamports
	opCallTransfer
	opFail
	opCreateDerived
)

type codedError uint32

func (e codedError) Error() string     { return "coded" }
func (e codedError) ErrorCode() uint32 { return uint32(e) }

// testProgram performs the operation selected by the first data byte on accounts[0].
type testProgram struct{}

func (testProgram) ID() pubkey.Key { return testProgramID }

func (testProgram) Execute(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	switch data[0] {
	case opWriteData:
		accounts[0].Data = append([]byte(nil), data[1:]...)
		ctx.Log("wrote")
	case opMintLamports:
		accounts[0].Balance++
	case opCallTransfer:
		return ctx.Invoke(system.NewTransferInstruction(accounts[0].Key, accounts[1].Key, 10), accounts)
	case opFail:
		return errors.Wrap(codedError(7), "failed")
	case opCreateDerived:
		seeds := [][]byte{[]byte("derived"), {data[1]}}
		return system.CreateAccount(ctx, accounts[0], accounts[1], 1000, 8, testProgramID, seeds)
	}
	return nil
}

func newRuntime(t *testing.T) *runtime.Runtime {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stater := ledger.NewStater(db, 1)
	st := stater.NewState()
	st.SetAccount(alice, &ledger.Account{Balance: 1000000})
	st.SetAccount(bob, &ledger.Account{Balance: 1000000})
	st.SetAccount(owned, &ledger.Account{Owner: testProgramID, Balance: 1, Data: []byte{0}})
	require.NoError(t, stater.Commit(st))

	return runtime.New(stater, sysvar.NewManualClock(100), sysvar.DefaultRent(), system.Program(), testProgram{})
}

func ix(op byte, metas ...tx.AccountMeta) *tx.Instruction {
	return tx.NewInstruction(testProgramID, metas, []byte{op, 1})
}

func build(nonce uint64, ixs ...*tx.Instruction) *tx.Transaction {
	b := new(tx.Builder).Nonce(nonce)
	for _, i := range ixs {
		b.Instruction(i)
	}
	return b.Build()
}

func account(t *testing.T, rt *runtime.Runtime, key pubkey.Key) *ledger.Account {
	acc, err := rt.Stater().GetAccount(key)
	require.NoError(t, err)
	return acc
}

func TestOwnedWriteCommits(t *testing.T) {
	rt := newRuntime(t)
	r, err := rt.Execute(context.Background(), build(1, ix(opWriteData, tx.NewAccountMeta(owned, false))))
	require.NoError(t, err)
	assert.False(t, r.Reverted, r.Error)
	assert.Equal(t, []string{"wrote"}, r.Logs)
	assert.Equal(t, int64(100), r.Time)
	assert.Equal(t, []byte{1}, account(t, rt, owned).Data)
}

func TestHostChecks(t *testing.T) {
	rt := newRuntime(t)
	tests := []struct {
		name string
		trx  *tx.Transaction
		want error
	}{
		{"readonly", build(1, ix(opWriteData, tx.NewReadonlyAccountMeta(owned, false))), runtime.ErrReadonlyModified},
		{"foreign data", build(2, ix(opWriteData, tx.NewAccountMeta(alice, true))), runtime.ErrExternalDataModified},
		{"unbalanced", build(3, ix(opMintLamports, tx.NewAccountMeta(owned, false))), runtime.ErrUnbalanced},
		{"escalation", build(4, ix(opCallTransfer, tx.NewAccountMeta(alice, false), tx.NewAccountMeta(bob, false))), runtime.ErrPrivilegeEscalation},
		{"unknown", build(5, tx.NewInstruction(pubkey.NamedKey("nobody"), nil, nil)), runtime.ErrUnknownProgram},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := rt.Execute(context.Background(), tt.trx)
			require.NoError(t, err)
			assert.True(t, r.Reverted)
			assert.Contains(t, r.Error, tt.want.Error())
		})
	}
	assert.Equal(t, []byte{0}, account(t, rt, owned).Data)
	assert.Equal(t, uint64(1), account(t, rt, owned).Balance)
}

func TestCrossProgramTransfer(t *testing.T) {
	rt := newRuntime(t)
	r, err := rt.Execute(context.Background(), build(1, ix(opCallTransfer, tx.NewAccountMeta(alice, true), tx.NewAccountMeta(bob, false))))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.Error)
	assert.Equal(t, uint64(1000000-10), account(t, rt, alice).Balance)
	assert.Equal(t, uint64(1000000+10), account(t, rt, bob).Balance)
}

func TestDerivedSigner(t *testing.T) {
	rt := newRuntime(t)
	derived, bump, err := pubkey.FindProgramAddress([][]byte{[]byte("derived")}, testProgramID)
	require.NoError(t, err)

	create := tx.NewInstruction(testProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(alice, true),
		tx.NewAccountMeta(derived, false),
		tx.NewReadonlyAccountMeta(system.ProgramID, false),
	}, []byte{opCreateDerived, bump})

	r, err := rt.Execute(context.Background(), build(1, create))
	require.NoError(t, err)
	require.False(t, r.Reverted, r.Error)

	acc := account(t, rt, derived)
	assert.Equal(t, testProgramID, acc.Owner)
	assert.Equal(t, uint64(1000), acc.Balance)
	assert.Len(t, acc.Data, 8)

	// the program can not sign for an address derived from other seeds
	other := pubkey.NamedKey("not-derived")
	create = tx.NewInstruction(testProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(alice, true),
		tx.NewAccountMeta(other, false),
	}, []byte{opCreateDerived, bump})
	r, err = rt.Execute(context.Background(), build(2, create))
	require.NoError(t, err)
	assert.True(t, r.Reverted)
}

func TestMultiInstructionAtomicity(t *testing.T) {
	rt := newRuntime(t)
	trx := build(1,
		ix(opWriteData, tx.NewAccountMeta(owned, false)),
		tx.NewInstruction(testProgramID, []tx.AccountMeta{tx.NewAccountMeta(owned, false)}, []byte{opFail}),
	)
	r, err := rt.Execute(context.Background(), trx)
	require.NoError(t, err)
	assert.True(t, r.Reverted)
	assert.Equal(t, uint32(1), r.FailedInstruction)
	assert.Equal(t, uint32(7), r.ErrorCode)
	assert.Equal(t, []byte{0}, account(t, rt, owned).Data)
}

func TestExecuteSerial(t *testing.T) {
	rt := newRuntime(t)
	receipts, err := rt.ExecuteSerial(context.Background(), []*tx.Transaction{
		build(1, system.NewTransferInstruction(alice, bob, 5)),
		build(2, system.NewTransferInstruction(alice, bob, 5), tx.NewInstruction(testProgramID, nil, []byte{opFail})),
		build(3, system.NewTransferInstruction(bob, alice, 1)),
	})
	require.NoError(t, err)
	require.Len(t, receipts, 3)
	assert.False(t, receipts[0].Reverted)
	assert.True(t, receipts[1].Reverted)
	assert.False(t, receipts[2].Reverted)

	assert.Equal(t, uint64(1000000-5+1), account(t, rt, alice).Balance)
	assert.Equal(t, uint64(1000000+5-1), account(t, rt, bob).Balance)
}

func TestExecuteBatchConcurrentWriters(t *testing.T) {
	rt := newRuntime(t)
	var txs []*tx.Transaction
	for i := range 50 {
		txs = append(txs, build(uint64(i), system.NewTransferInstruction(alice, bob, 1)))
	}
	receipts, err := rt.ExecuteBatch(context.Background(), txs)
	require.NoError(t, err)
	for i, r := range receipts {
		assert.False(t, r.Reverted, i)
		assert.Equal(t, txs[i].ID(), r.TxID)
	}
	assert.Equal(t, uint64(1000000-50), account(t, rt, alice).Balance)
	assert.Equal(t, uint64(1000000+50), account(t, rt, bob).Balance)
}

func TestExecuteRejectsMalformed(t *testing.T) {
	rt := newRuntime(t)
	_, err := rt.Execute(context.Background(), new(tx.Builder).Build())
	assert.Error(t, err)
}
