// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
	"github.com/vechain/stakepool/system"
	"github.com/vechain/stakepool/tx"
)

// AssociatedProgramID is the id of the associated token account program.
var AssociatedProgramID = pubkey.NamedKey("stakepool/associated-token")

func associatedSeeds(owner, mint pubkey.Key) [][]byte {
	return [][]byte{owner[:], ProgramID[:], mint[:]}
}

// FindAssociatedAddress returns the canonical token account address of owner for mint.
func FindAssociatedAddress(owner, mint pubkey.Key) (pubkey.Key, uint8, error) {
	return pubkey.FindProgramAddress(associatedSeeds(owner, mint), AssociatedProgramID)
}

type associatedProgram struct{}

// AssociatedProgram returns the associated token account program.
func AssociatedProgram() runtime.Program { return associatedProgram{} }

func (associatedProgram) ID() pubkey.Key { return AssociatedProgramID }

// Execute creates the associated token account.
// Accounts: payer [s,w], associated [w], owner [], mint [], system program [], token program [].
func (associatedProgram) Execute(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo, data []byte) error {
	if len(data) != 0 {
		return ErrInvalidInstruction
	}
	if len(accounts) < 6 {
		return ErrNotEnoughAccounts
	}
	payer, associated, owner, mint := accounts[0], accounts[1], accounts[2], accounts[3]
	if accounts[4].Key != system.ProgramID || accounts[5].Key != ProgramID {
		return ErrUnexpectedProgramID
	}

	addr, bump, err := FindAssociatedAddress(owner.Key, mint.Key)
	if err != nil {
		return err
	}
	if addr != associated.Key {
		return ErrInvalidAssociated
	}
	if !associated.IsUnallocated() {
		return errors.WithMessagef(ErrAssociatedInUse, "%v", associated.Key)
	}
	if _, err := loadMint(mint); err != nil {
		return err
	}

	seeds := append(associatedSeeds(owner.Key, mint.Key), []byte{bump})
	lamports := ctx.Rent().MinimumBalance(AccountSize)
	if err := system.CreateAccount(ctx, payer, associated, lamports, AccountSize, ProgramID, seeds); err != nil {
		return err
	}
	ix := NewInitializeAccountInstruction(associated.Key, mint.Key, owner.Key)
	return ctx.Invoke(ix, []*runtime.AccountInfo{associated, mint, owner})
}

// NewCreateAssociatedInstruction builds the instruction creating owner's
// associated token account for mint, funded by payer.
func NewCreateAssociatedInstruction(payer, owner, mint pubkey.Key) (*tx.Instruction, error) {
	addr, _, err := FindAssociatedAddress(owner, mint)
	if err != nil {
		return nil, err
	}
	return tx.NewInstruction(AssociatedProgramID, associatedMetas(payer, addr, owner, mint), nil), nil
}

func associatedMetas(payer, associated, owner, mint pubkey.Key) []tx.AccountMeta {
	return []tx.AccountMeta{
		tx.NewAccountMeta(payer, true),
		tx.NewAccountMeta(associated, false),
		tx.NewReadonlyAccountMeta(owner, false),
		tx.NewReadonlyAccountMeta(mint, false),
		tx.NewReadonlyAccountMeta(system.ProgramID, false),
		tx.NewReadonlyAccountMeta(ProgramID, false),
	}
}

// CreateAssociatedAccount invokes the associated token program from another
// program. accounts must hold payer, associated, owner, mint and both program
// accounts, in that order.
func CreateAssociatedAccount(ctx *runtime.InvokeContext, accounts []*runtime.AccountInfo) error {
	if len(accounts) < 6 {
		return ErrNotEnoughAccounts
	}
	ix := tx.NewInstruction(AssociatedProgramID, associatedMetas(
		accounts[0].Key, accounts[1].Key, accounts[2].Key, accounts[3].Key,
	), nil)
	return ctx.Invoke(ix, accounts)
}
