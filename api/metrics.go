// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/stakepool/metrics"
)

var (
	metricHTTPReqCounter  = metrics.LazyLoadCounterVec("api_request_count", []string{"name", "code", "method"})
	metricHTTPReqDuration = metrics.LazyLoadHistogramVec("api_duration_ms", []string{"name", "code", "method"}, metrics.BucketHTTPReqs)
)

// metricsResponseWriter is a wrapper around http.ResponseWriter that captures the status code.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (m *metricsResponseWriter) WriteHeader(code int) {
	m.statusCode = code
	m.ResponseWriter.WriteHeader(code)
}

// routeName turns a route name like "GET /pools/{mint}" into "pools_mint".
// Unnamed routes are labelled unknown.
func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil || route.GetName() == "" {
		return "unknown"
	}
	name := route.GetName()
	if i := strings.IndexByte(name, ' '); i >= 0 {
		name = name[i+1:]
	}
	name = strings.NewReplacer("{", "", "}", "").Replace(name)
	return strings.ReplaceAll(strings.Trim(name, "/"), "/", "_")
}

// metricsMiddleware is a middleware that records metrics for each request.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()

		mrw := newMetricsResponseWriter(w)
		next.ServeHTTP(mrw, r)

		labels := map[string]string{
			"name":   routeName(r),
			"code":   strconv.Itoa(mrw.statusCode),
			"method": r.Method,
		}
		metricHTTPReqCounter().AddWithLabel(1, labels)
		metricHTTPReqDuration().ObserveWithLabels(time.Since(now).Milliseconds(), labels)
	})
}
