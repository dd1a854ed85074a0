// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily)
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()
	m.GetOrCreateCountMeter("c").Add(1)
	m.GetOrCreateCountVecMeter("cv", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	m.GetOrCreateGaugeMeter("g").Set(1)
	m.GetOrCreateHistogramMeter("h", nil).Observe(1)
	m.GetOrCreateHistogramVecMeter("hv", []string{"a"}, nil).ObserveWithLabels(1, map[string]string{"a": "b"})

	rec := httptest.NewRecorder()
	m.GetOrCreateHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("instructions").Add(1)
	Counter("instructions").Add(2)
	CounterVec("instruction_errors", []string{"code"}).AddWithLabel(1, map[string]string{"code": "ZeroAmount"})
	Gauge("pools").Set(3)
	Histogram("tx_duration_ms", BucketExecution).Observe(5)
	HistogramVec("api_duration_ms", []string{"name"}, nil).ObserveWithLabels(7, map[string]string{"name": "stake"})

	m := gather(t)
	require.Contains(t, m, "stakepool_metrics_instructions")
	assert.Equal(t, float64(3), m["stakepool_metrics_instructions"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(1), m["stakepool_metrics_instruction_errors"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(3), m["stakepool_metrics_pools"].Metric[0].GetGauge().GetValue())
	assert.Equal(t, float64(5), m["stakepool_metrics_tx_duration_ms"].Metric[0].GetHistogram().GetSampleSum())
	assert.Equal(t, float64(7), m["stakepool_metrics_api_duration_ms"].Metric[0].GetHistogram().GetSampleSum())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "stakepool_metrics_instructions 3"))
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	f := LazyLoad(func() int {
		calls++
		return calls
	})
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, f())
	assert.Equal(t, 1, calls)
}
