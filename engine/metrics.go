// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import "github.com/vechain/relay/metrics"

var (
	metricCalls        = metrics.LazyLoadCounterVec("engine_calls_count", []string{"op", "result"})
	metricCallDuration = metrics.LazyLoadHistogramVec("engine_call_duration_ms", []string{"op"}, metrics.Bucket10s)
	metricStorageWords = metrics.LazyLoadHistogramVec("engine_storage_words", []string{"op"}, []int64{0, 8, 16, 32, 64, 128, 256, 512, 1024, 4096})
)
