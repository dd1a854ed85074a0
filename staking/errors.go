// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies a staking failure. Codes are stable and surface in receipts.
type Code uint32

const (
	AlreadyInitialized Code = 6000 + iota
	NotRentExempt
	InvalidDerivation
	Unauthorized
	ZeroAmount
	DoubleStake
	NoActiveStake
	LockNotExpired
	ArithmeticOverflow
	InsufficientStake
	InsufficientVaultBalance
	InvalidInstruction
	NotEnoughAccounts
	AccountFlagsMismatch
	InvalidAccountData
	InvalidOwner
	InvalidMint
	InvalidProgram
	InsufficientFunds
)

var codeNames = map[Code]string{
	AlreadyInitialized:       "AlreadyInitialized",
	NotRentExempt:            "NotRentExempt",
	InvalidDerivation:        "InvalidDerivation",
	Unauthorized:             "Unauthorized",
	ZeroAmount:               "ZeroAmount",
	DoubleStake:              "DoubleStake",
	NoActiveStake:            "NoActiveStake",
	LockNotExpired:           "LockNotExpired",
	ArithmeticOverflow:       "ArithmeticOverflow",
	InsufficientStake:        "InsufficientStake",
	InsufficientVaultBalance: "InsufficientVaultBalance",
	InvalidInstruction:       "InvalidInstruction",
	NotEnoughAccounts:        "NotEnoughAccounts",
	AccountFlagsMismatch:     "AccountFlagsMismatch",
	InvalidAccountData:       "InvalidAccountData",
	InvalidOwner:             "InvalidOwner",
	InvalidMint:              "InvalidMint",
	InvalidProgram:           "InvalidProgram",
	InsufficientFunds:        "InsufficientFunds",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", uint32(c))
}

// Error is a staking failure. The operation that returned it did not happen.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return e.Code.String() + ": " + e.Msg
}

// ErrorCode returns the numeric code, for receipts.
func (e *Error) ErrorCode() uint32 { return uint32(e.Code) }

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err, or any error it wraps, is a staking error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
