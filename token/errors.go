// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import "github.com/pkg/errors"

var (
	ErrInvalidInstruction  = errors.New("token: invalid instruction data")
	ErrNotEnoughAccounts   = errors.New("token: not enough accounts")
	ErrInvalidAccountData  = errors.New("token: invalid account data")
	ErrNotTokenAccount     = errors.New("token: account not owned by token program")
	ErrAlreadyInitialized  = errors.New("token: account already initialized")
	ErrUninitialized       = errors.New("token: account not initialized")
	ErrMintMismatch        = errors.New("token: account mint mismatch")
	ErrOwnerMismatch       = errors.New("token: owner does not match")
	ErrMissingSignature    = errors.New("token: missing required signature")
	ErrInsufficientFunds   = errors.New("token: insufficient funds")
	ErrOverflow            = errors.New("token: operation overflowed")
	ErrInvalidAssociated   = errors.New("token: associated address does not match seed derivation")
	ErrAssociatedInUse     = errors.New("token: associated account already in use")
	ErrUnexpectedProgramID = errors.New("token: unexpected program account")
)
