// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// MaxRequestBodySize caps the body of API requests.
const MaxRequestBodySize = 200 * 1024

// StartAPIServer serves handler on addr. A positive timeout bounds each request.
// Returns the portal url and a func to stop the server.
func StartAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}

	if timeout > 0 {
		handler = http.TimeoutHandler(handler, timeout, "request timeout")
	}
	handler = requestBodyLimit(handler)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var wg sync.WaitGroup
	wg.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		wg.Wait()
	}, nil
}

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
		h.ServeHTTP(w, r)
	})
}
