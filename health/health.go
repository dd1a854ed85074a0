// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"sync"
	"time"

	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/tx"
)

type TxIngestion struct {
	ID        *pubkey.Key `json:"id"`
	Timestamp *time.Time  `json:"timestamp"`
}

type Status struct {
	Healthy         bool         `json:"healthy"`
	LastTransaction *TxIngestion `json:"lastTransaction"`
	ClockSynced     bool         `json:"clockSynced"`
	ReceiptsStored  bool         `json:"receiptsStored"`
}

// ReceiptWriter persists receipts of executed transactions.
type ReceiptWriter interface {
	WriteReceipts(receipts []*tx.Receipt) error
}

type Health struct {
	lock        sync.RWMutex
	lastTx      time.Time
	lastTxID    *pubkey.Key
	clockSynced bool
	storeErr    error
}

// New creates a Health assuming the local clock is in sync until told otherwise.
func New() *Health {
	return &Health{clockSynced: true}
}

func (h *Health) NewTransaction(id pubkey.Key) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.lastTx = time.Now()
	h.lastTxID = &id
}

func (h *Health) ClockSyncStatus(synced bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.clockSynced = synced
}

func (h *Health) Status() (*Status, error) {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ingestion := &TxIngestion{ID: h.lastTxID}
	if h.lastTxID != nil {
		ts := h.lastTx
		ingestion.Timestamp = &ts
	}

	return &Status{
		Healthy:         h.clockSynced && h.storeErr == nil,
		LastTransaction: ingestion,
		ClockSynced:     h.clockSynced,
		ReceiptsStored:  h.storeErr == nil,
	}, nil
}

// Track returns a ReceiptWriter that records each batch on h before
// forwarding it to w. A failed write marks the node unhealthy until the next
// successful one.
func (h *Health) Track(w ReceiptWriter) ReceiptWriter {
	return &tracker{h, w}
}

type tracker struct {
	health *Health
	next   ReceiptWriter
}

func (t *tracker) WriteReceipts(receipts []*tx.Receipt) error {
	if len(receipts) > 0 {
		t.health.NewTransaction(receipts[len(receipts)-1].TxID)
	}
	err := t.next.WriteReceipts(receipts)

	t.health.lock.Lock()
	t.health.storeErr = err
	t.health.lock.Unlock()
	return err
}
