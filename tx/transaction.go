// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/pubkey"
)

// MaxInstructions limits the instructions carried by one transaction.
const MaxInstructions = 64

var (
	errEmptyTransaction  = errors.New("tx: no instructions")
	errTooManyInstrs     = errors.New("tx: too many instructions")
	errConflictingSigner = errors.New("tx: program account can not sign")
)

type body struct {
	Instructions []*Instruction
	Nonce        uint64
}

// Transaction is an immutable list of instructions executed atomically.
type Transaction struct {
	body body

	cache struct {
		id atomic.Pointer[pubkey.Key]
	}
}

// Builder to make it easy to build transaction.
type Builder struct {
	body body
}

// Instruction add an instruction.
func (b *Builder) Instruction(ix *Instruction) *Builder {
	b.body.Instructions = append(b.body.Instructions, NewInstruction(ix.ProgramID, ix.Accounts, ix.Data))
	return b
}

// Nonce set nonce. Transactions with identical instructions need distinct nonces
// to get distinct ids.
func (b *Builder) Nonce(nonce uint64) *Builder {
	b.body.Nonce = nonce
	return b
}

// Build build tx object.
func (b *Builder) Build() *Transaction {
	return &Transaction{body: b.body}
}

// Instructions returns the instructions. They should not be modified.
func (t *Transaction) Instructions() []*Instruction {
	return t.body.Instructions
}

// Nonce returns the nonce.
func (t *Transaction) Nonce() uint64 {
	return t.body.Nonce
}

// ID returns the id of the transaction, blake2b of its rlp encoding.
func (t *Transaction) ID() pubkey.Key {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}
	data, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	id := pubkey.Blake2b(data)
	t.cache.id.Store(&id)
	return id
}

// Validate checks the shape of the transaction, independent of any state.
func (t *Transaction) Validate() error {
	if len(t.body.Instructions) == 0 {
		return errEmptyTransaction
	}
	if len(t.body.Instructions) > MaxInstructions {
		return errTooManyInstrs
	}
	for _, ix := range t.body.Instructions {
		for _, meta := range ix.Accounts {
			if meta.Key == ix.ProgramID && meta.IsSigner {
				return errConflictingSigner
			}
		}
	}
	return nil
}

// AccountKeys returns every distinct account referenced, in first-seen order,
// with privileges merged across instructions.
func (t *Transaction) AccountKeys() []AccountMeta {
	var (
		metas []AccountMeta
		index = make(map[pubkey.Key]int)
	)
	for _, ix := range t.body.Instructions {
		for _, meta := range ix.Accounts {
			if i, ok := index[meta.Key]; ok {
				metas[i].IsSigner = metas[i].IsSigner || meta.IsSigner
				metas[i].IsWritable = metas[i].IsWritable || meta.IsWritable
				continue
			}
			index[meta.Key] = len(metas)
			metas = append(metas, meta)
		}
	}
	return metas
}

// EncodeRLP implements rlp.Encoder.
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder.
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var body body
	if err := s.Decode(&body); err != nil {
		return err
	}
	t.body = body
	t.cache.id.Store(nil)
	return nil
}

func (t *Transaction) String() string {
	return fmt.Sprintf(`Tx(%v, %v instructions, nonce %v)`, t.ID().AbbrevString(), len(t.body.Instructions), t.body.Nonce)
}
