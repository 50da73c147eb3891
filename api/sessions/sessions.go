// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sessions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/relay/api/utils"
	"github.com/vechain/relay/builtin/battle"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/relay"
)

type Session struct {
	ID         relay.Bytes32 `json:"id"`
	ClaimID    relay.Bytes32 `json:"claimId"`
	Submitter  relay.Address `json:"submitter"`
	Challenger relay.Address `json:"challenger"`
	Decided    bool          `json:"decided"`
	Winner     relay.Address `json:"winner"`
	Loser      relay.Address `json:"loser"`
}

func convertSession(id relay.Bytes32, s *battle.Session) *Session {
	return &Session{
		ID:         id,
		ClaimID:    s.ClaimID,
		Submitter:  s.Submitter,
		Challenger: s.Challenger,
		Decided:    s.Decided,
		Winner:     s.Winner,
		Loser:      s.Loser,
	}
}

type ResolveRequest struct {
	Winner relay.Address `json:"winner"`
}

// Sessions serves battle sessions. Resolving is only mounted when the node
// acts as the arbiter itself.
type Sessions struct {
	engine       *engine.Engine
	allowResolve bool
}

func New(engine *engine.Engine, allowResolve bool) *Sessions {
	return &Sessions{
		engine,
		allowResolve,
	}
}

func parseID(req *http.Request) (relay.Bytes32, error) {
	id, err := relay.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return relay.Bytes32{}, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return id, nil
}

func (s *Sessions) writeSession(w http.ResponseWriter, id relay.Bytes32) error {
	session, err := s.engine.Session(id)
	if err != nil {
		return err
	}
	if !session.Exists() {
		return utils.NotFound(errors.New("session not found"))
	}
	return utils.WriteJSON(w, convertSession(id, session))
}

func (s *Sessions) handleGetSession(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	return s.writeSession(w, id)
}

func (s *Sessions) handleResolve(w http.ResponseWriter, req *http.Request) error {
	id, err := parseID(req)
	if err != nil {
		return err
	}
	var body ResolveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.engine.Resolve(id, body.Winner); err != nil {
		return err
	}
	return s.writeSession(w, id)
}

func (s *Sessions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /sessions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSession))
	if s.allowResolve {
		sub.Path("/{id}/resolve").
			Methods(http.MethodPost).
			Name("POST /sessions/{id}/resolve").
			HandlerFunc(utils.WrapHandlerFunc(s.handleResolve))
	}
}
