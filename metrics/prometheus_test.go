// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func sumCounters(mf *dto.MetricFamily) (sum float64) {
	for _, m := range mf.Metric {
		sum += m.GetCounter().GetValue()
	}
	return
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	assert.False(t, NoOp())

	Counter("proposed").Add(2)
	Counter("proposed").Add(3)

	outcome := CounterVec("settled", []string{"kind"})
	outcome.AddWithLabel(1, map[string]string{"kind": "pay-submitter"})
	outcome.AddWithLabel(4, map[string]string{"kind": "pay-challengers"})

	pending := Gauge("pending")
	pending.Add(7)
	pending.Add(-2)

	sessions := GaugeVec("sessions", []string{"state"})
	sessions.SetWithLabel(9, map[string]string{"state": "open"})
	sessions.AddWithLabel(1, map[string]string{"state": "open"})
	sessions.SetWithLabel(2, map[string]string{"state": "decided"})

	Histogram("wait_ms", Bucket10s).Observe(600)
	Histogram("wait_ms", Bucket10s).Observe(1200)
	HistogramVec("op_ms", []string{"op"}, nil).ObserveWithLabels(30, map[string]string{"op": "propose"})

	families := gather(t)

	assert.Equal(t, float64(5), families["relay_metrics_proposed"].Metric[0].GetCounter().GetValue())
	assert.Equal(t, float64(5), sumCounters(families["relay_metrics_settled"]))
	assert.Len(t, families["relay_metrics_settled"].Metric, 2)
	assert.Equal(t, float64(5), families["relay_metrics_pending"].Metric[0].GetGauge().GetValue())

	gauges := map[string]float64{}
	for _, m := range families["relay_metrics_sessions"].Metric {
		gauges[m.Label[0].GetValue()] = m.GetGauge().GetValue()
	}
	assert.Equal(t, map[string]float64{"open": 10, "decided": 2}, gauges)

	hist := families["relay_metrics_wait_ms"].Metric[0].GetHistogram()
	assert.Equal(t, uint64(2), hist.GetSampleCount())
	assert.Equal(t, float64(1800), hist.GetSampleSum())
	assert.Equal(t, float64(30), families["relay_metrics_op_ms"].Metric[0].GetHistogram().GetSampleSum())

	rec := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "relay_metrics_proposed 5")
}

func TestSameMeterReturned(t *testing.T) {
	InitializePrometheusMetrics()

	assert.Same(t, Counter("same_counter"), Counter("same_counter"))
	assert.Same(t, Gauge("same_gauge"), Gauge("same_gauge"))
	// kinds are keyed separately
	assert.IsType(t, &promGaugeMeter{}, Gauge("same_counter_gauge"))
}

func TestLazyLoading(t *testing.T) {
	metrics = defaultNoopMetrics()

	for _, a := range []any{
		Gauge("noopGauge"),
		GaugeVec("noopGauge", nil),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		Histogram("noopHist", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}

	lazyGauge := LazyLoadGauge("lazyGauge")
	lazyGaugeVec := LazyLoadGaugeVec("lazyGaugeVec", nil)
	lazyCounter := LazyLoadCounter("lazyCounter")
	lazyCounterVec := LazyLoadCounterVec("lazyCounterVec", nil)
	lazyHistogram := LazyLoadHistogram("lazyHistogram", nil)
	lazyHistogramVec := LazyLoadHistogramVec("lazyHistogramVec", nil, nil)

	// resolved on first use, so they pick up the prometheus service
	InitializePrometheusMetrics()

	require.IsType(t, &promGaugeMeter{}, lazyGauge())
	require.IsType(t, &promGaugeVecMeter{}, lazyGaugeVec())
	require.IsType(t, &promCountMeter{}, lazyCounter())
	require.IsType(t, &promCountVecMeter{}, lazyCounterVec())
	require.IsType(t, &promHistogramMeter{}, lazyHistogram())
	require.IsType(t, &promHistogramVecMeter{}, lazyHistogramVec())
}
