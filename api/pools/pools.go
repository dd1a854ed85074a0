// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pools

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakepool/api/utils"
	"github.com/vechain/stakepool/ledger"
	"github.com/vechain/stakepool/staking"
	"github.com/vechain/stakepool/sysvar"
)

// Pools serves staking pools and the stakers in them.
type Pools struct {
	reader *staking.Reader
	clock  sysvar.Clock
}

func New(stater *ledger.Stater, clock sysvar.Clock) *Pools {
	return &Pools{staking.NewReader(stater), clock}
}

func (p *Pools) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	mint, err := utils.KeyVar(req, "mint")
	if err != nil {
		return err
	}
	view, err := p.reader.Pool(mint)
	if err != nil {
		if errors.Is(err, staking.ErrNotFound) {
			return utils.NotFound(errors.WithMessage(err, "pool"))
		}
		return err
	}
	return utils.WriteJSON(w, convertPool(view))
}

func (p *Pools) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	mint, err := utils.KeyVar(req, "mint")
	if err != nil {
		return err
	}
	owner, err := utils.KeyVar(req, "owner")
	if err != nil {
		return err
	}
	pool, err := p.reader.Pool(mint)
	if err != nil {
		if errors.Is(err, staking.ErrNotFound) {
			return utils.NotFound(errors.WithMessage(err, "pool"))
		}
		return err
	}
	view, err := p.reader.User(mint, owner, p.clock.Now())
	if err != nil {
		if errors.Is(err, staking.ErrNotFound) {
			return utils.NotFound(errors.WithMessage(err, "staker"))
		}
		return err
	}
	return utils.WriteJSON(w, convertStaker(view, pool.MinLockPeriod))
}

func (p *Pools) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{mint}").
		Methods(http.MethodGet).
		Name("GET /pools/{mint}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/{mint}/stakers/{owner}").
		Methods(http.MethodGet).
		Name("GET /pools/{mint}/stakers/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetStaker))
}
