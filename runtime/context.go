// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"bytes"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/sysvar"
	"github.com/vechain/stakepool/tx"
)

// MaxCallDepth limits nested cross-program invocations, top level included.
const MaxCallDepth = 4

// InvokeContext is the environment of one executing program frame.
type InvokeContext struct {
	rt    *Runtime
	now   int64
	depth int
	frame *frame
	logs  *[]string
}

// Now returns the transaction's execution timestamp in unix seconds.
// It is fixed for the whole transaction.
func (c *InvokeContext) Now() int64 { return c.now }

// Rent returns the rent schedule.
func (c *InvokeContext) Rent() sysvar.Rent { return c.rt.rent }

// ProgramID returns the id of the executing program.
func (c *InvokeContext) ProgramID() pubkey.Key { return c.frame.programID }

// Depth returns the invocation depth, 1 for top level instructions.
func (c *InvokeContext) Depth() int { return c.depth }

// Log appends a line to the transaction receipt.
func (c *InvokeContext) Log(msg string) {
	*c.logs = append(*c.logs, msg)
}

// Logf appends a formatted line to the transaction receipt.
func (c *InvokeContext) Logf(format string, args ...any) {
	c.Log(fmt.Sprintf(format, args...))
}

// Invoke calls another program with ix. Every account ix references must be
// among accounts. Each entry in signerSeeds is a seed set whose derived address
// under the calling program signs the invocation.
func (c *InvokeContext) Invoke(ix *tx.Instruction, accounts []*AccountInfo, signerSeeds ...[][]byte) error {
	if c.depth >= MaxCallDepth {
		return ErrCallDepth
	}

	signers := make(map[pubkey.Key]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		key, err := pubkey.CreateProgramAddress(seeds, c.frame.programID)
		if err != nil {
			return errors.Wrap(err, "derive signer")
		}
		signers[key] = true
	}

	byKey := make(map[pubkey.Key]*AccountInfo, len(accounts))
	for _, info := range accounts {
		if prev, ok := byKey[info.Key]; ok {
			merged := *prev
			merged.IsSigner = merged.IsSigner || info.IsSigner
			merged.IsWritable = merged.IsWritable || info.IsWritable
			byKey[info.Key] = &merged
			continue
		}
		byKey[info.Key] = info
	}

	callee := make([]*AccountInfo, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		info, ok := byKey[meta.Key]
		if !ok {
			return errors.WithMessagef(ErrMissingAccount, "account %v", meta.Key)
		}
		if meta.IsWritable && !info.IsWritable {
			return errors.WithMessagef(ErrPrivilegeEscalation, "writable %v", meta.Key)
		}
		if meta.IsSigner && !info.IsSigner && !signers[meta.Key] {
			return errors.WithMessagef(ErrPrivilegeEscalation, "signer %v", meta.Key)
		}
		callee[i] = &AccountInfo{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    info.Account,
		}
	}

	// settle the caller's own changes before handing accounts over
	if err := c.frame.verify(); err != nil {
		return err
	}
	c.frame.refresh()

	if err := c.rt.invoke(c.now, c.depth+1, c.logs, ix.ProgramID, callee, ix.Data); err != nil {
		return err
	}
	c.frame.refresh()
	return nil
}

// frame tracks the accounts of one program invocation and their state on entry.
type frame struct {
	programID pubkey.Key
	current   map[pubkey.Key]*ledger.Account
	pre       map[pubkey.Key]*ledger.Account
	writable  map[pubkey.Key]bool
}

func newFrame(programID pubkey.Key, accounts []*AccountInfo) *frame {
	f := &frame{
		programID: programID,
		current:   make(map[pubkey.Key]*ledger.Account, len(accounts)),
		writable:  make(map[pubkey.Key]bool, len(accounts)),
	}
	for _, info := range accounts {
		f.current[info.Key] = info.Account
		f.writable[info.Key] = f.writable[info.Key] || info.IsWritable
	}
	f.refresh()
	return f
}

func (f *frame) refresh() {
	f.pre = make(map[pubkey.Key]*ledger.Account, len(f.current))
	for key, acc := range f.current {
		f.pre[key] = acc.Copy()
	}
}

// verify checks the changes made since the last refresh against the
// account ownership rules.
func (f *frame) verify() error {
	var before, after uint256.Int
	for key, cur := range f.current {
		pre := f.pre[key]
		before.Add(&before, uint256.NewInt(pre.Balance))
		after.Add(&after, uint256.NewInt(cur.Balance))

		if cur.Equal(pre) {
			continue
		}
		if !f.writable[key] {
			return errors.WithMessagef(ErrReadonlyModified, "account %v", key)
		}
		owned := pre.Owner == f.programID
		if cur.Owner != pre.Owner && !owned {
			return errors.WithMessagef(ErrOwnerModified, "account %v", key)
		}
		if !bytes.Equal(cur.Data, pre.Data) && !owned {
			return errors.WithMessagef(ErrExternalDataModified, "account %v", key)
		}
		if cur.Balance < pre.Balance && !owned {
			return errors.WithMessagef(ErrExternalDebit, "account %v", key)
		}
	}
	if !before.Eq(&after) {
		return ErrUnbalanced
	}
	return nil
}
