// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	assert.True(t, NoOp())

	labels := map[string]string{"unknown": "label"}
	assert.NotPanics(t, func() {
		Counter("claims").Add(1)
		CounterVec("claims_vec", []string{"op"}).AddWithLabel(1, labels)
		Gauge("pending").Set(3)
		Gauge("pending").Add(-1)
		GaugeVec("pending_vec", []string{"op"}).SetWithLabel(2, labels)
		Histogram("latency", Bucket10s).Observe(250)
		HistogramVec("latency_vec", []string{"op"}, nil).ObserveWithLabels(250, labels)
	})

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
