// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/metrics"
)

func TestAPIServer(t *testing.T) {
	url, closer, err := StartAPIServer("localhost:0", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.Write([]byte("ok"))
	}))
	require.NoError(t, err)
	defer closer()

	res, err := http.Post(url, "text/plain", strings.NewReader("small"))
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", string(body))

	res, err = http.Post(url, "text/plain", strings.NewReader(strings.Repeat("x", maxRequestBodySize+1)))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)
}

func TestAPIServerBadAddr(t *testing.T) {
	_, _, err := StartAPIServer("not-an-addr", http.NotFoundHandler())
	assert.Error(t, err)
}

func TestMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(1)

	url, closer, err := StartMetricsServer("localhost:0")
	require.NoError(t, err)
	defer closer()

	res, err := http.Get(url)
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "relay_metrics_httpserver_test_count")
}

func TestMetricsServerBadAddr(t *testing.T) {
	_, _, err := StartMetricsServer("not-an-addr")
	assert.ErrorContains(t, err, "listen metrics API addr")
}
