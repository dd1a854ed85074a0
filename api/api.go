// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/api/accounts"
	"github.com/vechain/stakepool/api/node"
	"github.com/vechain/stakepool/api/pools"
	"github.com/vechain/stakepool/api/transactions"
	"github.com/vechain/stakepool/health"
	"github.com/vechain/stakepool/log"
	"github.com/vechain/stakepool/logdb"
	"github.com/vechain/stakepool/pubkey"
	"github.com/vechain/stakepool/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	PprofOn         bool
	EnableReqLogger *atomic.Bool
	// requests slower than this are logged even with the request logger off, 0 disables
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
	LogsLimit            uint64
	// mounts /node/health when set
	Health *health.Health
}

// New return api router
func New(
	rt *runtime.Runtime,
	logDB *logdb.LogDB,
	genesisID pubkey.Key,
	opts Options,
) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	accounts.New(rt.Stater()).
		Mount(router, "/accounts")
	pools.New(rt.Stater(), rt.Clock()).
		Mount(router, "/pools")
	transactions.New(rt, logDB, opts.LogsLimit).
		Mount(router, "/transactions")
	if opts.Health != nil {
		node.New(opts.Health).
			Mount(router, "/node")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}
	router.Use(genesisHeader(genesisID))

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id"}),
		handlers.ExposedHeaders([]string{"x-genesis-id"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP
}

// genesisHeader stamps responses with the genesis id and rejects requests
// addressed to another network.
func genesisHeader(genesisID pubkey.Key) mux.MiddlewareFunc {
	id := genesisID.String()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("x-genesis-id", id)
			if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, id) {
				http.Error(w, "genesis id mismatch", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
