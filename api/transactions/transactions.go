// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/runtime"
)

type Transactions struct {
	rt       *runtime.Runtime
	logDB    *logdb.LogDB
	maxLimit uint64
}

func New(rt *runtime.Runtime, logDB *logdb.LogDB, maxLimit uint64) *Transactions {
	return &Transactions{
		rt,
		logDB,
		maxLimit,
	}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var body Transaction
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(err, "body")
	}
	trx, err := body.decode()
	if err != nil {
		return utils.BadRequest(err, "body")
	}
	if err := trx.Validate(); err != nil {
		return utils.BadRequest(err, "bad tx")
	}

	receipt, err := t.rt.Execute(req.Context(), trx)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	txID, err := utils.KeyVar(req, "id")
	if err != nil {
		return err
	}
	receipt, err := t.logDB.GetReceipt(req.Context(), txID)
	if err != nil {
		return err
	}
	if receipt == nil {
		return utils.WriteJSON(w, nil)
	}
	return utils.WriteJSON(w, convertReceipt(receipt))
}

func (t *Transactions) handleFilterReceipts(w http.ResponseWriter, req *http.Request) error {
	var filter ReceiptFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(err, "body")
	}
	f, err := filter.convert(t.maxLimit)
	if err != nil {
		return utils.BadRequest(err, "filter")
	}
	receipts, err := t.logDB.FilterReceipts(req.Context(), f)
	if err != nil {
		return err
	}
	result := make([]*Receipt, 0, len(receipts))
	for _, r := range receipts {
		result = append(result, convertReceipt(r))
	}
	return utils.WriteJSON(w, result)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/receipts").
		Methods(http.MethodPost).
		Name("POST /transactions/receipts").
		HandlerFunc(utils.WrapHandlerFunc(t.handleFilterReceipts))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetReceipt))
}
