// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/relay/api/utils"
	"github.com/vechain/relay/cache"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
)

const defaultPendingLimit = 100

var logger = log.WithContext("pkg", "claims-api")

type Claims struct {
	engine *engine.Engine
	auth   *utils.Authenticator
	// views of claims whose payout completed, which never change again.
	// nil when caching is disabled.
	settled *cache.LRU
}

// New creates the claims API. A non-positive cacheSize disables the settled view cache.
func New(engine *engine.Engine, auth *utils.Authenticator, cacheSize int) *Claims {
	c := &Claims{engine: engine, auth: auth}
	if cacheSize > 0 {
		// only fails on non-positive size
		c.settled, _ = cache.NewLRU(cacheSize)
	}
	return c
}

func parseID(req *http.Request) (relay.Bytes32, error) {
	id, err := relay.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return relay.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (c *Claims) getClaim(id relay.Bytes32) (*Claim, error) {
	if c.settled != nil {
		v, ok := c.settled.Get(id)
		if hit, miss, changed := c.settled.Stats().Snapshot(); changed {
			logger.Debug("settled claim cache", "hit", hit, "miss", miss)
		}
		if ok {
			return v.(*Claim), nil
		}
	}
	claim, err := c.engine.Claim(id)
	if err != nil {
		return nil, err
	}
	if !claim.Exists() {
		return nil, nil
	}
	view := convertClaim(id, claim)
	if c.settled != nil && claim.Decided && claim.Settlement.Done {
		c.settled.Add(id, view)
	}
	return view, nil
}

func (c *Claims) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	claim, err := c.getClaim(id)
	if err != nil {
		return err
	}
	if claim == nil {
		return utils.NotFound(errors.New("claim not found"))
	}
	return utils.WriteJSON(w, claim)
}

func (c *Claims) handleGetChallengers(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	challengers, err := c.engine.Challengers(id)
	if err != nil {
		return err
	}
	if challengers == nil {
		challengers = []relay.Address{}
	}
	return utils.WriteJSON(w, challengers)
}

func (c *Claims) handleGetDeposit(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	account, err := relay.ParseAddress(mux.Vars(req)["account"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "account"))
	}
	bonded, err := c.engine.BondedDeposit(id, *account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Deposit{Amount: amount(bonded)})
}

func (c *Claims) handleGetPending(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	if query.Get("pending") != "true" {
		return utils.BadRequest(errors.New("pending: only pending claims can be listed"))
	}
	limit := defaultPendingLimit
	if s := query.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return utils.BadRequest(errors.New("limit: must be a positive integer"))
		}
		limit = n
	}
	ids, err := c.engine.PendingClaims(limit)
	if err != nil {
		return err
	}
	if ids == nil {
		ids = []relay.Bytes32{}
	}
	return utils.WriteJSON(w, ids)
}

func (c *Claims) handlePropose(w http.ResponseWriter, req *http.Request) error {
	signer, err := c.auth.Authenticate(req)
	if err != nil {
		return err
	}
	var body ProposeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Submitter.IsZero() {
		return utils.BadRequest(errors.New("body: submitter required"))
	}
	if err := utils.Authorize(signer, body.Submitter, "submitter"); err != nil {
		return err
	}
	id, err := c.engine.Propose(body.args())
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, map[string]*relay.Bytes32{"id": &id})
}

func (c *Claims) handleChallenge(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	signer, err := c.auth.Authenticate(req)
	if err != nil {
		return err
	}
	var body ChallengeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Challenger.IsZero() {
		return utils.BadRequest(errors.New("body: challenger required"))
	}
	if err := utils.Authorize(signer, body.Challenger, "challenger"); err != nil {
		return err
	}
	if err := c.engine.Challenge(id, body.Challenger); err != nil {
		return err
	}
	return c.writeClaim(w, id)
}

func (c *Claims) handleConfirm(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var body ConfirmRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.engine.ConfirmClaim(id, body.DescendantID); err != nil {
		return err
	}
	return c.writeClaim(w, id)
}

// handleCall serves the calls taking the claim id only.
func (c *Claims) handleCall(call func(relay.Bytes32) error) utils.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) error {
		id, err := parseID(req)
		if err != nil {
			return err
		}
		if err := call(id); err != nil {
			return err
		}
		return c.writeClaim(w, id)
	}
}

func (c *Claims) writeClaim(w http.ResponseWriter, id relay.Bytes32) error {
	claim, err := c.getClaim(id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, claim)
}

func (c *Claims) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /claims").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPending))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /claims").
		HandlerFunc(utils.WrapHandlerFunc(c.handlePropose))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /claims/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetClaim))
	sub.Path("/{id}/challengers").
		Methods(http.MethodGet).
		Name("GET /claims/{id}/challengers").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetChallengers))
	sub.Path("/{id}/deposits/{account}").
		Methods(http.MethodGet).
		Name("GET /claims/{id}/deposits/{account}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetDeposit))
	sub.Path("/{id}/challenges").
		Methods(http.MethodPost).
		Name("POST /claims/{id}/challenges").
		HandlerFunc(utils.WrapHandlerFunc(c.handleChallenge))
	sub.Path("/{id}/finalize").
		Methods(http.MethodPost).
		Name("POST /claims/{id}/finalize").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall(c.engine.CheckClaimFinished)))
	sub.Path("/{id}/confirm").
		Methods(http.MethodPost).
		Name("POST /claims/{id}/confirm").
		HandlerFunc(utils.WrapHandlerFunc(c.handleConfirm))
	sub.Path("/{id}/reject").
		Methods(http.MethodPost).
		Name("POST /claims/{id}/reject").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall(c.engine.RejectClaim)))
	sub.Path("/{id}/settle").
		Methods(http.MethodPost).
		Name("POST /claims/{id}/settle").
		HandlerFunc(utils.WrapHandlerFunc(c.handleCall(c.engine.Settle)))
}
