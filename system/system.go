// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package system implements the native program owning every fresh account:
// it funds and allocates accounts and assigns them to other programs.
package system

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/tx"
)

// ProgramID is the id of the system program, the owner of empty accounts.
var ProgramID = pubkey.Key{}

// MaxDataLength limits the data size of an allocated account.
const MaxDataLength = 10 * 1024 * 1024

const (
	tagCreateAccount byte = iota
	tagTransfer
)

var (
	ErrInvalidInstruction = errors.New("system: invalid instruction data")
	ErrNotEnoughAccounts  = errors.New("system: not enough accounts")
	ErrMissingSignature   = errors.New("system: missing required signature")
	ErrAccountInUse       = errors.New("system: account already in use")
	ErrInsufficientFunds  = errors.New("system: insufficient lamports")
	ErrInvalidFrom        = errors.New("system: from account must be a plain system account")
	ErrDataTooLarge       = errors.New("system: requested data length too large")
)

type program struct{}

// Program returns the system program.
func Program() runtime.Program { return program{} }

func (program) ID() pubkey.Key { return ProgramID }

func (program) Execute(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstruction
	}
	switch data[0] {
	case tagCreateAccount:
		if len(data) != 1+8+8+32 {
			return ErrInvalidInstruction
		}
		if len(accounts) < 2 {
			return ErrNotEnoughAccounts
		}
		lamports := binary.LittleEndian.Uint64(data[1:])
		space := binary.LittleEndian.Uint64(data[9:])
		owner := pubkey.BytesToKey(data[17:49])
		return createAccount(accounts[0], accounts[1], lamports, space, owner)
	case tagTransfer:
		if len(data) != 1+8 {
			return ErrInvalidInstruction
		}
		if len(accounts) < 2 {
			return ErrNotEnoughAccounts
		}
		return transfer(accounts[0], accounts[1], binary.LittleEndian.Uint64(data[1:]))
	default:
		return ErrInvalidInstruction
	}
}

func createAccount(from, to *runtime.AccountInfo, lamports, space uint64, owner pubkey.Key) error {
	if !to.IsSigner {
		return errors.WithMessagef(ErrMissingSignature, "new account %v", to.Key)
	}
	if !to.IsUnallocated() {
		return errors.WithMessagef(ErrAccountInUse, "%v", to.Key)
	}
	if space > MaxDataLength {
		return ErrDataTooLarge
	}
	// a prefunded address only needs the shortfall
	var topUp uint64
	if to.Balance < lamports {
		topUp = lamports - to.Balance
	}
	if err := transfer(from, to, topUp); err != nil {
		return err
	}
	to.Data = make([]byte, space)
	to.Owner = owner
	return nil
}

func transfer(from, to *runtime.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return errors.WithMessagef(ErrMissingSignature, "from %v", from.Key)
	}
	if from.Owner != ProgramID || len(from.Data) != 0 {
		return ErrInvalidFrom
	}
	if from.Balance < lamports {
		return errors.WithMessagef(ErrInsufficientFunds, "need %d, have %d", lamports, from.Balance)
	}
	if from.Key == to.Key {
		return nil
	}
	from.Balance -= lamports
	to.Balance += lamports
	return nil
}

// NewCreateAccountInstruction builds an instruction funding newAccount with
// lamports from funder, allocating space bytes and assigning it to owner.
// Both accounts must sign.
func NewCreateAccountInstruction(funder, newAccount pubkey.Key, lamports, space uint64, owner pubkey.Key) *tx.Instruction {
	data := make([]byte, 1+8+8+32)
	data[0] = tagCreateAccount
	binary.LittleEndian.PutUint64(data[1:], lamports)
	binary.LittleEndian.PutUint64(data[9:], space)
	copy(data[17:], owner[:])
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(funder, true),
		tx.NewAccountMeta(newAccount, true),
	}, data)
}

// NewTransferInstruction builds a native balance transfer.
func NewTransferInstruction(from, to pubkey.Key, lamports uint64) *tx.Instruction {
	data := make([]byte, 1+8)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(from, true),
		tx.NewAccountMeta(to, false),
	}, data)
}

// CreateAccount invokes the system program from another program to create
// target. signerSeeds let a program sign for a derived target address.
func CreateAccount(ctx *runtime.InvokeContext, funder, target *runtime.AccountInfo, lamports, space uint64, owner pubkey.Key, signerSeeds ...[][]byte) error {
	ix := NewCreateAccountInstruction(funder.Key, target.Key, lamports, space, owner)
	return ctx.Invoke(ix, []*runtime.AccountInfo{funder, target}, signerSeeds...)
}
