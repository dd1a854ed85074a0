// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	goruntime "runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/tx"
)

var logger = log.WithContext("pkg", "runtime")

// ReceiptWriter persists receipts of executed transactions.
type ReceiptWriter interface {
	WriteReceipts(receipts []*tx.Receipt) error
}

// Runtime executes transactions against the ledger. Transactions touching
// disjoint writable accounts run in parallel; conflicting ones are serialized
// by the account lock table.
type Runtime struct {
	stater   *ledger.Stater
	clock    sysvar.Clock
	rent     sysvar.Rent
	programs map[pubkey.Key]Program
	locks    *lockTable
	receipts ReceiptWriter
	parallel int
}

// New create a Runtime object.
func New(stater *ledger.Stater, clock sysvar.Clock, rent sysvar.Rent, programs ...Program) *Runtime {
	rt := &Runtime{
		stater:   stater,
		clock:    clock,
		rent:     rent,
		programs: make(map[pubkey.Key]Program, len(programs)),
		locks:    newLockTable(),
		parallel: goruntime.NumCPU() * 2,
	}
	for _, p := range programs {
		rt.programs[p.ID()] = p
	}
	return rt
}

// SetReceiptWriter sets where receipts are persisted.
// Returns this runtime.
func (rt *Runtime) SetReceiptWriter(w ReceiptWriter) *Runtime {
	rt.receipts = w
	return rt
}

func (rt *Runtime) Stater() *ledger.Stater { return rt.stater }
func (rt *Runtime) Clock() sysvar.Clock     { return rt.clock }
func (rt *Runtime) Rent() sysvar.Rent       { return rt.rent }

// Execute executes a transaction and commits its changes if it succeeds.
// A failing instruction yields a reverted receipt, not an error; errors are
// reserved for malformed transactions, cancellation and storage failures.
func (rt *Runtime) Execute(ctx context.Context, trx *tx.Transaction) (*tx.Receipt, error) {
	receipts, err := rt.ExecuteSerial(ctx, []*tx.Transaction{trx})
	if err != nil {
		return nil, err
	}
	return receipts[0], nil
}

// ExecuteBatch executes transactions concurrently, each atomically on its own,
// and returns receipts in submission order.
func (rt *Runtime) ExecuteBatch(ctx context.Context, txs []*tx.Transaction) ([]*tx.Receipt, error) {
	receipts := make([]*tx.Receipt, len(txs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(rt.parallel)
	for i, trx := range txs {
		g.Go(func() error {
			receipt, err := rt.Execute(ctx, trx)
			if err != nil {
				return errors.WithMessagef(err, "tx %d", i)
			}
			receipts[i] = receipt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return receipts, nil
}

// ExecuteSerial executes transactions one after another against a single
// state and commits the result once, like applying a block. Each transaction
// is still atomic: a failed one is reverted to its checkpoint.
func (rt *Runtime) ExecuteSerial(ctx context.Context, txs []*tx.Transaction) ([]*tx.Receipt, error) {
	var metas []tx.AccountMeta
	for _, trx := range txs {
		if err := trx.Validate(); err != nil {
			return nil, err
		}
		metas = append(metas, trx.AccountKeys()...)
	}

	ls := newLockSet(metas)
	wait, err := rt.locks.acquire(ctx, ls)
	metricLockWait().Observe(wait.Milliseconds())
	if err != nil {
		return nil, errors.Wrap(err, "acquire account locks")
	}
	defer rt.locks.unlock(ls)

	var (
		start    = time.Now()
		now      = rt.clock.Now()
		state    = rt.stater.NewState()
		receipts = make([]*tx.Receipt, 0, len(txs))
		applied  bool
	)
	for _, trx := range txs {
		receipt, err := rt.apply(state, trx, now)
		if err != nil {
			return nil, err
		}
		applied = applied || !receipt.Reverted
		receipts = append(receipts, receipt)
	}
	if applied {
		if err := rt.stater.Commit(state); err != nil {
			return nil, err
		}
	}

	elapsed := time.Since(start)
	for _, receipt := range receipts {
		status := "success"
		if receipt.Reverted {
			status = "reverted"
		}
		metricTxCounter().AddWithLabel(1, map[string]string{"status": status})
		logger.Debug("tx executed", "id", receipt.TxID.AbbrevString(), "reverted", receipt.Reverted, "err", receipt.Error)
	}
	metricTxDuration().Observe(elapsed.Milliseconds())

	if rt.receipts != nil {
		if err := rt.receipts.WriteReceipts(receipts); err != nil {
			logger.Warn("failed to write receipts", "err", err)
		}
	}
	return receipts, nil
}

// apply executes trx against state. The state is left untouched when the
// transaction reverts.
func (rt *Runtime) apply(state *ledger.State, trx *tx.Transaction, now int64) (*tx.Receipt, error) {
	receipt := &tx.Receipt{TxID: trx.ID(), Time: now}

	accounts := make(map[pubkey.Key]*ledger.Account)
	for _, meta := range trx.AccountKeys() {
		acc, err := state.GetAccount(meta.Key)
		if err != nil {
			return nil, err
		}
		accounts[meta.Key] = acc
	}

	checkpoint := state.NewCheckpoint()
	for i, ix := range trx.Instructions() {
		infos := make([]*AccountInfo, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			infos[j] = &AccountInfo{
				Key:        meta.Key,
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
				Account:    accounts[meta.Key],
			}
		}

		if err := rt.invoke(now, 1, &receipt.Logs, ix.ProgramID, infos, ix.Data); err != nil {
			state.RevertTo(checkpoint)
			receipt.Reverted = true
			receipt.FailedInstruction = uint32(i)
			receipt.Error = err.Error()
			var coder ErrorCoder
			if errors.As(err, &coder) {
				receipt.ErrorCode = coder.ErrorCode()
			}
			return receipt, nil
		}
		for _, info := range infos {
			if info.IsWritable {
				state.SetAccount(info.Key, info.Account)
			}
		}
	}
	return receipt, nil
}

func (rt *Runtime) invoke(now int64, depth int, logs *[]string, programID pubkey.Key, accounts []*AccountInfo, data []byte) error {
	program, ok := rt.programs[programID]
	if !ok {
		return errors.WithMessagef(ErrUnknownProgram, "%v", programID)
	}
	f := newFrame(programID, accounts)
	ctx := &InvokeContext{
		rt:    rt,
		now:   now,
		depth: depth,
		frame: f,
		logs:  logs,
	}
	if err := program.Execute(ctx, accounts, data); err != nil {
		return err
	}
	return f.verify()
}

func newLockSet(metas []tx.AccountMeta) *lockSet {
	writable := make(map[pubkey.Key]bool)
	var order []pubkey.Key
	for _, meta := range metas {
		if _, seen := writable[meta.Key]; !seen {
			order = append(order, meta.Key)
		}
		writable[meta.Key] = writable[meta.Key] || meta.IsWritable
	}
	ls := &lockSet{}
	for _, key := range order {
		if writable[key] {
			ls.writable = append(ls.writable, key)
		} else {
			ls.readonly = append(ls.readonly, key)
		}
	}
	return ls
}
