// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpserver runs the API and metrics listeners of the node.
package httpserver

import (
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/pkg/errors"

	"github.com/vechain/relay/co"
	"github.com/vechain/relay/metrics"
)

const maxRequestBodySize = 200 * 1024

// StartAPIServer serves the API handler until the returned closer is called.
func StartAPIServer(addr string, handler http.Handler) (string, func(), error) {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		handler.ServeHTTP(w, r)
	})
	return serve("API", addr, "/", limited)
}

// StartMetricsServer serves the prometheus registry under /metrics.
func StartMetricsServer(addr string) (string, func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return serve("metrics API", addr, "/metrics", handlers.CompressHandler(mux))
}

// serve listens on addr and returns the url of path on the bound address.
func serve(name, addr, path string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %s addr [%v]", name, addr)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + path, func() {
		srv.Close()
		goes.Wait()
	}, nil
}
