// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/token"
	"github.com/vechain/stakepool/tx"
)

// ledgerFlags returns flags locating a persisted ledger plus extra.
func ledgerFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{networkFlag, dataDirFlag, cacheFlag, verbosityFlag, jsonLogsFlag}, extra...)
}

// openLedger opens the persisted ledger of the selected network.
func openLedger(ctx *cli.Context) (*runtime.Runtime, func()) {
	initLogger(ctx)
	gene := selectGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)
	mainDB := openMainDB(ctx, instanceDir)
	logDB := openLogDB(instanceDir)
	rt := initRuntime(ctx, gene, mainDB, logDB)
	return rt, func() {
		logDB.Close()
		mainDB.Close()
	}
}

func printResult(ctx *cli.Context, v any) error {
	if ctx.Bool(rawFlag.Name) {
		spew.Fdump(os.Stdout, v)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func inspectPoolAction(ctx *cli.Context) error {
	mint, err := keyArg(ctx, 0, "mint")
	if err != nil {
		return err
	}
	rt, closeLedger := openLedger(ctx)
	defer closeLedger()

	view, err := staking.NewReader(rt.Stater()).Pool(mint)
	if err != nil {
		return err
	}
	return printResult(ctx, view)
}

func inspectStakerAction(ctx *cli.Context) error {
	mint, err := keyArg(ctx, 0, "mint")
	if err != nil {
		return err
	}
	owner, err := keyArg(ctx, 1, "owner")
	if err != nil {
		return err
	}
	rt, closeLedger := openLedger(ctx)
	defer closeLedger()

	view, err := staking.NewReader(rt.Stater()).User(mint, owner, rt.Clock().Now())
	if err != nil {
		return err
	}
	return printResult(ctx, view)
}

func inspectAccountAction(ctx *cli.Context) error {
	key, err := keyArg(ctx, 0, "key")
	if err != nil {
		return err
	}
	rt, closeLedger := openLedger(ctx)
	defer closeLedger()

	acc, err := rt.Stater().GetAccount(key)
	if err != nil {
		return err
	}
	return printResult(ctx, accountOutput(acc))
}

type account struct {
	Owner   pubkey.Key     `json:"owner"`
	Balance uint64         `json:"balance"`
	Data    hexutil.Bytes  `json:"data"`
	Token   *token.Account `json:"token,omitempty"`
}

func accountOutput(acc *ledger.Account) *account {
	out := &account{Owner: acc.Owner, Balance: acc.Balance, Data: acc.Data}
	if acc.Owner == token.ProgramID {
		if ta, err := token.DecodeAccount(acc.Data); err == nil {
			out.Token = ta
		}
	}
	return out
}

// execute runs ix against the persisted ledger and prints its receipt.
// A reverted receipt is reported as an error.
func execute(ctx *cli.Context, ix *tx.Instruction, err error) error {
	if err != nil {
		return err
	}
	rt, closeLedger := openLedger(ctx)
	defer closeLedger()

	trx := new(tx.Builder).
		Nonce(uint64(time.Now().UnixNano())).
		Instruction(ix).
		Build()
	receipt, err := rt.Execute(context.Background(), trx)
	if err != nil {
		return err
	}
	if err := printResult(ctx, receipt); err != nil {
		return err
	}
	if receipt.Reverted {
		if receipt.ErrorCode != 0 {
			return errors.Errorf("reverted: %v: %s", staking.Code(receipt.ErrorCode), receipt.Error)
		}
		return errors.Errorf("reverted: %s", receipt.Error)
	}
	return nil
}

func createPoolAction(ctx *cli.Context) error {
	authority, err := keyFlag(ctx, authorityFlag.Name)
	if err != nil {
		return err
	}
	payer, err := keyFlag(ctx, payerFlag.Name, authority)
	if err != nil {
		return err
	}
	mint, err := keyFlag(ctx, mintFlag.Name)
	if err != nil {
		return err
	}
	ix, err := staking.NewCreatePoolInstruction(payer, authority, mint, ctx.Uint64(rateFlag.Name), ctx.Int64(lockFlag.Name))
	return execute(ctx, ix, err)
}

func updateConfigAction(ctx *cli.Context) error {
	authority, err := keyFlag(ctx, authorityFlag.Name)
	if err != nil {
		return err
	}
	mint, err := keyFlag(ctx, mintFlag.Name)
	if err != nil {
		return err
	}
	var (
		rate *uint64
		lock *int64
	)
	if ctx.IsSet(rateFlag.Name) {
		v := ctx.Uint64(rateFlag.Name)
		rate = &v
	}
	if ctx.IsSet(lockFlag.Name) {
		v := ctx.Int64(lockFlag.Name)
		lock = &v
	}
	ix, err := staking.NewUpdateConfigInstruction(authority, mint, rate, lock)
	return execute(ctx, ix, err)
}

func createUserAction(ctx *cli.Context) error {
	owner, err := keyFlag(ctx, ownerFlag.Name)
	if err != nil {
		return err
	}
	payer, err := keyFlag(ctx, payerFlag.Name, owner)
	if err != nil {
		return err
	}
	mint, err := keyFlag(ctx, mintFlag.Name)
	if err != nil {
		return err
	}
	ix, err := staking.NewCreateUserRecordInstruction(payer, owner, mint)
	return execute(ctx, ix, err)
}

// positionArgs resolves the owner, its associated token account and the mint.
func positionArgs(ctx *cli.Context) (owner, holder, mint pubkey.Key, err error) {
	if owner, err = keyFlag(ctx, ownerFlag.Name); err != nil {
		return
	}
	if mint, err = keyFlag(ctx, mintFlag.Name); err != nil {
		return
	}
	holder, _, err = token.FindAssociatedAddress(owner, mint)
	return
}

func stakeAction(ctx *cli.Context) error {
	owner, holder, mint, err := positionArgs(ctx)
	if err != nil {
		return err
	}
	ix, err := staking.NewStakeInstruction(owner, holder, mint, ctx.Uint64(amountFlag.Name))
	return execute(ctx, ix, err)
}

func claimAction(ctx *cli.Context) error {
	owner, holder, mint, err := positionArgs(ctx)
	if err != nil {
		return err
	}
	ix, err := staking.NewClaimRewardsInstruction(owner, holder, mint)
	return execute(ctx, ix, err)
}

func unstakeAction(ctx *cli.Context) error {
	owner, holder, mint, err := positionArgs(ctx)
	if err != nil {
		return err
	}
	ix, err := staking.NewUnstakeInstruction(owner, holder, mint)
	return execute(ctx, ix, err)
}
