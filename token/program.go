// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements the native fungible token program and the
// associated token account program.
package token

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/tx"
)

// ProgramID is the id of the token program.
var ProgramID = pubkey.NamedKey("stakepool/token")

const (
	tagInitializeAccount byte = iota
	tagTransfer
	tagMintTo
)

type program struct{}

// Program returns the token program.
func Program() runtime.Program { return program{} }

func (program) ID() pubkey.Key { return ProgramID }

func (program) Execute(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) == 0 {
		return ErrInvalidInstruction
	}
	tag, args := data[0], data[1:]
	switch tag {
	case tagInitializeAccount:
		if len(args) != 0 {
			return ErrInvalidInstruction
		}
		if len(accounts) < 3 {
			return ErrNotEnoughAccounts
		}
		return initializeAccount(accounts[0], accounts[1], accounts[2])
	case tagTransfer, tagMintTo:
		if len(args) != 8 {
			return ErrInvalidInstruction
		}
		if len(accounts) < 3 {
			return ErrNotEnoughAccounts
		}
		amount := binary.LittleEndian.Uint64(args)
		if tag == tagTransfer {
			if err := transfer(accounts[0], accounts[1], accounts[2], amount); err != nil {
				return err
			}
			ctx.Logf("token: transfer %d", amount)
			return nil
		}
		return mintTo(accounts[0], accounts[1], accounts[2], amount)
	default:
		return ErrInvalidInstruction
	}
}

func loadAccount(info *runtime.AccountInfo) (*Account, error) {
	if info.Owner != ProgramID {
		return nil, errors.WithMessagef(ErrNotTokenAccount, "%v", info.Key)
	}
	acc, err := DecodeAccount(info.Data)
	if err != nil {
		return nil, err
	}
	if !acc.IsInitialized() {
		return nil, errors.WithMessagef(ErrUninitialized, "%v", info.Key)
	}
	return acc, nil
}

func loadMint(info *runtime.AccountInfo) (*Mint, error) {
	if info.Owner != ProgramID {
		return nil, errors.WithMessagef(ErrNotTokenAccount, "%v", info.Key)
	}
	return DecodeMint(info.Data)
}

func initializeAccount(account, mint, owner *runtime.AccountInfo) error {
	if account.Owner != ProgramID {
		return errors.WithMessagef(ErrNotTokenAccount, "%v", account.Key)
	}
	acc, err := DecodeAccount(account.Data)
	if err != nil {
		return err
	}
	if acc.IsInitialized() {
		return ErrAlreadyInitialized
	}
	if _, err := loadMint(mint); err != nil {
		return err
	}
	acc = &Account{Mint: mint.Key, Owner: owner.Key}
	acc.EncodeTo(account.Data)
	return nil
}

func transfer(source, destination, authority *runtime.AccountInfo, amount uint64) error {
	src, err := loadAccount(source)
	if err != nil {
		return err
	}
	dst, err := loadAccount(destination)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch
	}
	if src.Owner != authority.Key {
		return ErrOwnerMismatch
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}
	if src.Amount < amount {
		return errors.WithMessagef(ErrInsufficientFunds, "need %d, have %d", amount, src.Amount)
	}
	if source.Key == destination.Key {
		return nil
	}
	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	src.Amount -= amount
	dst.Amount = sum
	src.EncodeTo(source.Data)
	dst.EncodeTo(destination.Data)
	return nil
}

func mintTo(mint, destination, authority *runtime.AccountInfo, amount uint64) error {
	m, err := loadMint(mint)
	if err != nil {
		return err
	}
	dst, err := loadAccount(destination)
	if err != nil {
		return err
	}
	if dst.Mint != mint.Key {
		return ErrMintMismatch
	}
	if m.Authority != authority.Key {
		return ErrOwnerMismatch
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}
	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return ErrOverflow
	}
	m.Supply = supply
	dst.Amount += amount // bounded by supply
	copy(mint.Data, m.Encode())
	dst.EncodeTo(destination.Data)
	return nil
}

// NewInitializeAccountInstruction binds a zeroed token account to mint and owner.
func NewInitializeAccountInstruction(account, mint, owner pubkey.Key) *tx.Instruction {
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(account, false),
		tx.NewReadonlyAccountMeta(mint, false),
		tx.NewReadonlyAccountMeta(owner, false),
	}, []byte{tagInitializeAccount})
}

// NewTransferInstruction moves amount from source to destination, signed by authority.
func NewTransferInstruction(source, destination, authority pubkey.Key, amount uint64) *tx.Instruction {
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(source, false),
		tx.NewAccountMeta(destination, false),
		tx.NewReadonlyAccountMeta(authority, true),
	}, amountData(tagTransfer, amount))
}

// NewMintToInstruction mints amount into destination, signed by the mint authority.
func NewMintToInstruction(mint, destination, authority pubkey.Key, amount uint64) *tx.Instruction {
	return tx.NewInstruction(ProgramID, []tx.AccountMeta{
		tx.NewAccountMeta(mint, false),
		tx.NewAccountMeta(destination, false),
		tx.NewReadonlyAccountMeta(authority, true),
	}, amountData(tagMintTo, amount))
}

func amountData(tag byte, amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

// Transfer invokes the token program from another program. signerSeeds let a
// program sign as a derived authority.
func Transfer(ctx *runtime.InvokeContext, source, destination, authority *runtime.AccountInfo, amount uint64, signerSeeds ...[][]byte) error {
	ix := NewTransferInstruction(source.Key, destination.Key, authority.Key, amount)
	return ctx.Invoke(ix, []*runtime.AccountInfo{source, destination, authority}, signerSeeds...)
}
