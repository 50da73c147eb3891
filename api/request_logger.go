// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/pborman/uuid"

	"github.com/vechain/relay/log"
)

// RequestLoggerHandler returns a http handler logging every request with its body.
// The id of the log entry is echoed in the x-request-id header.
func RequestLoggerHandler(handler http.Handler, logger log.Logger) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		var bodyBytes []byte
		if r.Body != nil {
			var err error
			bodyBytes, err = io.ReadAll(r.Body)
			if err != nil {
				logger.Warn("unexpected body read error", "err", err)
				http.Error(w, "unable to read body", http.StatusBadRequest)
				return
			}
			// restore the body for the wrapped handler
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}

		id := uuid.New()
		w.Header().Set("x-request-id", id)
		logger.Info("API Request",
			"id", id,
			"timestamp", time.Now().Unix(),
			"URI", r.URL.String(),
			"Method", r.Method,
			"Body", string(bodyBytes),
		)
		handler.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
