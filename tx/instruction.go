// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"bytes"

	"github.com/vechain/stakepool/pubkey"
)

// AccountMeta references an account from an instruction, with the privileges
// the instruction requires on it.
type AccountMeta struct {
	Key        pubkey.Key `json:"key"`
	IsSigner   bool       `json:"isSigner"`
	IsWritable bool       `json:"isWritable"`
}

// NewAccountMeta creates a writable account meta.
func NewAccountMeta(key pubkey.Key, isSigner bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta creates a read-only account meta.
func NewReadonlyAccountMeta(key pubkey.Key, isSigner bool) AccountMeta {
	return AccountMeta{Key: key, IsSigner: isSigner}
}

// Instruction is the basic execution unit of a transaction: a call into one
// program with an ordered account list and opaque data.
type Instruction struct {
	ProgramID pubkey.Key
	Accounts  []AccountMeta
	Data      []byte
}

// NewInstruction create a new instruction. accounts and data are copied.
func NewInstruction(programID pubkey.Key, accounts []AccountMeta, data []byte) *Instruction {
	return &Instruction{
		ProgramID: programID,
		Accounts:  append([]AccountMeta(nil), accounts...),
		Data:      bytes.Clone(data),
	}
}
