// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/relay/api/accounts"
	"github.com/vechain/relay/api/claims"
	"github.com/vechain/relay/api/doc"
	"github.com/vechain/relay/api/events"
	"github.com/vechain/relay/api/sessions"
	"github.com/vechain/relay/api/subscriptions"
	"github.com/vechain/relay/api/superblocks"
	"github.com/vechain/relay/api/utils"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/eventdb"
	"github.com/vechain/relay/log"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	ClaimCacheSize  int
	EnableReqLogger bool
	EnableMetrics   bool
	// AllowResolve mounts the session resolve endpoint, for nodes acting as the arbiter.
	AllowResolve bool
	// Feed streams committed events under /subscriptions when set.
	Feed *subscriptions.Feed
}

// New return api router, and a func closing the open subscriptions.
func New(eng *engine.Engine, eventDB *eventdb.EventDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	router.PathPrefix("/doc").Handler(
		http.StripPrefix("/doc/", http.FileServer(http.FS(doc.FS))),
	)

	auth := utils.NewAuthenticator(eng)
	claims.New(eng, auth, opts.ClaimCacheSize).
		Mount(router, "/claims")
	superblocks.New(eng).
		Mount(router, "/superblocks")
	accounts.New(eng, auth).
		Mount(router, "/accounts")
	sessions.New(eng, opts.AllowResolve).
		Mount(router, "/sessions")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}

	closer := func() {}
	if opts.Feed != nil {
		subs := subscriptions.New(opts.Feed, origins)
		subs.Mount(router, "/subscriptions")
		closer = subs.Close
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", utils.SignatureHeader, utils.ExpiryHeader}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	handler = handleXRelayVersion(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}
	return handler.ServeHTTP, closer
}

// handleXRelayVersion tags every response with the version of the API document.
func handleXRelayVersion(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-relay-ver", doc.Version())
		h.ServeHTTP(w, r)
	})
}
