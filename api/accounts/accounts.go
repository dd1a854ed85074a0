// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/ledger"
)

type Accounts struct {
	stater *ledger.Stater
}

func New(stater *ledger.Stater) *Accounts {
	return &Accounts{stater}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	key, err := utils.KeyVar(req, "key")
	if err != nil {
		return err
	}
	acc, err := a.stater.GetAccount(key)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertAccount(acc))
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{key}").
		Methods(http.MethodGet).
		Name("GET /accounts/{key}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
}
