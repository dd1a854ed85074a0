// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import "net/http"

type noopMetrics struct{}

func defaultNoopMetrics() Metrics { return &noopMetrics{} }

func (n *noopMetrics) GetOrCreateCountMeter(string) CountMeter                  { return noopMeter{} }
func (n *noopMetrics) GetOrCreateCountVecMeter(string, []string) CountVecMeter  { return noopMeter{} }
func (n *noopMetrics) GetOrCreateGaugeMeter(string) GaugeMeter                  { return noopMeter{} }
func (n *noopMetrics) GetOrCreateHistogramMeter(string, []int64) HistogramMeter { return noopMeter{} }
func (n *noopMetrics) GetOrCreateHistogramVecMeter(string, []string, []int64) HistogramVecMeter {
	return noopMeter{}
}

// GetOrCreateHandler serves nothing while metrics are disabled.
func (n *noopMetrics) GetOrCreateHandler() http.Handler { return http.NotFoundHandler() }

type noopMeter struct{}

func (noopMeter) Add(int64)                                  {}
func (noopMeter) Set(int64)                                  {}
func (noopMeter) Observe(int64)                              {}
func (noopMeter) AddWithLabel(int64, map[string]string)      {}
func (noopMeter) ObserveWithLabels(int64, map[string]string) {}
