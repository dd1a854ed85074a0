// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/tx"
)

func TestLockTable(t *testing.T) {
	var (
		lt  = newLockTable()
		a   = pubkey.NamedKey("a")
		b   = pubkey.NamedKey("b")
		ctx = context.Background()
	)

	writeA := newLockSet([]tx.AccountMeta{{Key: a, IsWritable: true}, {Key: b}})
	readA := newLockSet([]tx.AccountMeta{{Key: a}})
	readB := newLockSet([]tx.AccountMeta{{Key: b}})

	assert.Equal(t, []pubkey.Key{a}, writeA.writable)
	assert.Equal(t, []pubkey.Key{b}, writeA.readonly)

	_, err := lt.acquire(ctx, writeA)
	require.NoError(t, err)

	// readers of b share with the holder
	_, err = lt.acquire(ctx, readB)
	require.NoError(t, err)
	lt.unlock(readB)

	// a reader of a waits for the writer
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = lt.acquire(short, readA)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan struct{})
	go func() {
		if _, err := lt.acquire(ctx, readA); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("reader acquired while writer holds lock")
	case <-time.After(20 * time.Millisecond):
	}

	lt.unlock(writeA)
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("reader not woken after unlock")
	}
	lt.unlock(readA)
	assert.Empty(t, lt.writers)
	assert.Empty(t, lt.readers)
}
