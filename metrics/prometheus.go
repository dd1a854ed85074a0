// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/stakepool/log"
)

const namespace = "stakepool_metrics"

var logger = log.WithContext("pkg", "metrics")

// InitializePrometheusMetrics switches the default provider to prometheus.
// Subsequent calls are no-ops.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = &prometheusMetrics{}
	}
}

type prometheusMetrics struct {
	meters sync.Map // name -> meter
}

// getOrCreate returns the meter registered under name, creating it with build on miss.
func getOrCreate[T any](o *prometheusMetrics, name string, build func() (prometheus.Collector, T)) T {
	if v, ok := o.meters.Load(name); ok {
		return v.(T)
	}
	collector, meter := build()
	if err := prometheus.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			logger.Warn("unable to register metric", "name", name, "err", err)
		}
	}
	actual, _ := o.meters.LoadOrStore(name, meter)
	return actual.(T)
}

func floatBuckets(buckets []int64) []float64 {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, float64(b))
	}
	return out
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, CountMeter) {
		c := prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name})
		return c, &promCountMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, CountVecMeter) {
		c := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels)
		return c, &promCountVecMeter{c}
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, GaugeMeter) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name})
		return g, &promGaugeMeter{g}
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, HistogramMeter) {
		h := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		})
		return h, &promHistogramMeter{h}
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter {
	return getOrCreate(o, name, func() (prometheus.Collector, HistogramVecMeter) {
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets(buckets),
		}, labels)
		return h, &promHistogramVecMeter{h}
	})
}

type promCountMeter struct{ counter prometheus.Counter }

func (c *promCountMeter) Add(i int64) { c.counter.Add(float64(i)) }

type promCountVecMeter struct{ counter *prometheus.CounterVec }

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

type promGaugeMeter struct{ gauge prometheus.Gauge }

func (g *promGaugeMeter) Add(i int64) { g.gauge.Add(float64(i)) }
func (g *promGaugeMeter) Set(i int64) { g.gauge.Set(float64(i)) }

type promHistogramMeter struct{ histogram prometheus.Histogram }

func (h *promHistogramMeter) Observe(i int64) { h.histogram.Observe(float64(i)) }

type promHistogramVecMeter struct{ histogram *prometheus.HistogramVec }

func (h *promHistogramVecMeter) ObserveWithLabels(i int64, labels map[string]string) {
	h.histogram.With(labels).Observe(float64(i))
}
