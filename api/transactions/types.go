// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/tx"
)

// Instruction for json marshal
type Instruction struct {
	ProgramID pubkey.Key       `json:"programID"`
	Accounts  []tx.AccountMeta `json:"accounts"`
	Data      hexutil.Bytes    `json:"data"`
}

// Transaction is a transaction to submit, either RLP encoded in Raw or
// spelled out as instructions.
type Transaction struct {
	Raw          *string             `json:"raw,omitempty"`
	Nonce        math.HexOrDecimal64 `json:"nonce"`
	Instructions []Instruction       `json:"instructions,omitempty"`
}

func (t *Transaction) decode() (*tx.Transaction, error) {
	if t.Raw != nil {
		if len(t.Instructions) > 0 {
			return nil, errors.New("raw and instructions are exclusive")
		}
		data, err := hexutil.Decode(*t.Raw)
		if err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		var trx tx.Transaction
		if err := rlp.DecodeBytes(data, &trx); err != nil {
			return nil, errors.WithMessage(err, "raw")
		}
		return &trx, nil
	}

	b := new(tx.Builder).Nonce(uint64(t.Nonce))
	for _, ix := range t.Instructions {
		b.Instruction(tx.NewInstruction(ix.ProgramID, ix.Accounts, ix.Data))
	}
	return b.Build(), nil
}

// Receipt for json marshal
type Receipt struct {
	TxID              pubkey.Key `json:"txID"`
	Time              int64      `json:"time"`
	Reverted          bool       `json:"reverted"`
	FailedInstruction *uint32    `json:"failedInstruction,omitempty"`
	ErrorCode         uint32     `json:"errorCode,omitempty"`
	ErrorName         string     `json:"errorName,omitempty"`
	Error             string     `json:"error,omitempty"`
	Logs              []string   `json:"logs"`
}

func convertReceipt(r *tx.Receipt) *Receipt {
	receipt := &Receipt{
		TxID:     r.TxID,
		Time:     r.Time,
		Reverted: r.Reverted,
		Error:    r.Error,
		Logs:     r.Logs,
	}
	if receipt.Logs == nil {
		receipt.Logs = []string{}
	}
	if r.Reverted {
		idx := r.FailedInstruction
		receipt.FailedInstruction = &idx
	}
	if r.ErrorCode != 0 {
		receipt.ErrorCode = r.ErrorCode
		receipt.ErrorName = staking.Code(r.ErrorCode).String()
	}
	return receipt
}

// ReceiptFilter selects stored receipts.
type ReceiptFilter struct {
	Range    *logdb.Range   `json:"range"`
	Reverted *bool          `json:"reverted"`
	Order    logdb.Order    `json:"order"`
	Options  *logdb.Options `json:"options"`
}

func (f *ReceiptFilter) convert(limit uint64) (*logdb.ReceiptFilter, error) {
	switch f.Order {
	case "", logdb.ASC, logdb.DESC:
	default:
		return nil, errors.Errorf("unknown order %q", f.Order)
	}
	options := f.Options
	if options == nil {
		options = &logdb.Options{Limit: limit}
	} else if options.Limit > limit {
		return nil, errors.Errorf("options.limit exceeds the maximum allowed value of %d", limit)
	}
	return &logdb.ReceiptFilter{
		Range:    f.Range,
		Reverted: f.Reverted,
		Order:    f.Order,
		Options:  options,
	}, nil
}
