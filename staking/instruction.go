// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"encoding/binary"
	"fmt"
)

// Tag is the leading byte of every staking instruction.
type Tag uint8

const (
	TagCreatePool Tag = iota
	TagUpdateConfig
	TagCreateUserRecord
	TagStake
	TagClaimRewards
	TagUnstake
)

func (t Tag) String() string {
	switch t {
	case TagCreatePool:
		return "create_pool"
	case TagUpdateConfig:
		return "update_config"
	case TagCreateUserRecord:
		return "create_user_record"
	case TagStake:
		return "stake"
	case TagClaimRewards:
		return "claim_rewards"
	case TagUnstake:
		return "unstake"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

// Instruction is a decoded staking instruction.
type Instruction interface {
	Tag() Tag
	appendArgs(b []byte) []byte
}

// CreatePool initializes the pool of a mint.
type CreatePool struct {
	RewardRate    uint64
	MinLockPeriod int64
}

// UpdateConfig replaces the present fields of a pool's config.
type UpdateConfig struct {
	RewardRate    *uint64
	MinLockPeriod *int64
}

// CreateUserRecord initializes a depositor's ledger in a pool.
type CreateUserRecord struct{}

// Stake moves Amount tokens into the pool custody.
type Stake struct {
	Amount uint64
}

// ClaimRewards pays the accrued rewards.
type ClaimRewards struct{}

// Unstake pays the accrued rewards and returns the principal.
type Unstake struct{}

func (*CreatePool) Tag() Tag       { return TagCreatePool }
func (*UpdateConfig) Tag() Tag     { return TagUpdateConfig }
func (*CreateUserRecord) Tag() Tag { return TagCreateUserRecord }
func (*Stake) Tag() Tag            { return TagStake }
func (*ClaimRewards) Tag() Tag     { return TagClaimRewards }
func (*Unstake) Tag() Tag          { return TagUnstake }

func (ix *CreatePool) appendArgs(b []byte) []byte {
	b = binary.LittleEndian.AppendUint64(b, ix.RewardRate)
	return binary.LittleEndian.AppendUint64(b, uint64(ix.MinLockPeriod))
}

func (ix *UpdateConfig) appendArgs(b []byte) []byte {
	if ix.RewardRate == nil {
		b = append(b, 0)
	} else {
		b = binary.LittleEndian.AppendUint64(append(b, 1), *ix.RewardRate)
	}
	if ix.MinLockPeriod == nil {
		return append(b, 0)
	}
	return binary.LittleEndian.AppendUint64(append(b, 1), uint64(*ix.MinLockPeriod))
}

func (*CreateUserRecord) appendArgs(b []byte) []byte { return b }
func (*ClaimRewards) appendArgs(b []byte) []byte     { return b }
func (*Unstake) appendArgs(b []byte) []byte          { return b }

func (ix *Stake) appendArgs(b []byte) []byte {
	return binary.LittleEndian.AppendUint64(b, ix.Amount)
}

// EncodeInstruction returns the wire form of ix: the tag byte followed by
// its little-endian arguments.
func EncodeInstruction(ix Instruction) []byte {
	return ix.appendArgs([]byte{byte(ix.Tag())})
}

// DecodeInstruction parses the wire form. Unknown tags, truncated or
// trailing bytes and presence bytes other than 0 or 1 fail with
// InvalidInstruction.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, newError(InvalidInstruction, "empty data")
	}
	r := &argReader{data: data[1:]}

	var ix Instruction
	switch tag := Tag(data[0]); tag {
	case TagCreatePool:
		ix = &CreatePool{RewardRate: r.uint64(), MinLockPeriod: r.int64()}
	case TagUpdateConfig:
		u := &UpdateConfig{}
		if r.present() {
			v := r.uint64()
			u.RewardRate = &v
		}
		if r.present() {
			v := r.int64()
			u.MinLockPeriod = &v
		}
		ix = u
	case TagCreateUserRecord:
		ix = &CreateUserRecord{}
	case TagStake:
		ix = &Stake{Amount: r.uint64()}
	case TagClaimRewards:
		ix = &ClaimRewards{}
	case TagUnstake:
		ix = &Unstake{}
	default:
		return nil, newError(InvalidInstruction, "unknown tag %d", uint8(tag))
	}
	if err := r.finish(); err != nil {
		return nil, err
	}
	return ix, nil
}

// argReader consumes little-endian arguments, remembering the first error.
type argReader struct {
	data []byte
	err  error
}

func (r *argReader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	if len(r.data) < 8 {
		r.err = newError(InvalidInstruction, "truncated data")
		return 0
	}
	v := binary.LittleEndian.Uint64(r.data)
	r.data = r.data[8:]
	return v
}

func (r *argReader) int64() int64 {
	return int64(r.uint64())
}

func (r *argReader) present() bool {
	if r.err != nil {
		return false
	}
	if len(r.data) < 1 {
		r.err = newError(InvalidInstruction, "truncated data")
		return false
	}
	b := r.data[0]
	r.data = r.data[1:]
	switch b {
	case 0:
		return false
	case 1:
		return true
	}
	r.err = newError(InvalidInstruction, "invalid option byte %d", b)
	return false
}

func (r *argReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if len(r.data) != 0 {
		return newError(InvalidInstruction, "%d trailing bytes", len(r.data))
	}
	return nil
}
