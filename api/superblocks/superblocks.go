// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package superblocks

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/relay/api/utils"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/relay"
)

type Superblock struct {
	ID              relay.Bytes32         `json:"id"`
	MerkleRoot      relay.Bytes32         `json:"merkleRoot"`
	AccumulatedWork *math.HexOrDecimal256 `json:"accumulatedWork"`
	Timestamp       uint64                `json:"timestamp"`
	PrevTimestamp   uint64                `json:"prevTimestamp"`
	LastHash        relay.Bytes32         `json:"lastHash"`
	LastBits        uint32                `json:"lastBits"`
	ParentID        relay.Bytes32         `json:"parentId"`
	Height          uint32                `json:"height"`
	Status          string                `json:"status"`
	Submitter       relay.Address         `json:"submitter"`
	Index           uint64                `json:"index"`
}

func convertSuperblock(id relay.Bytes32, sb *superblocks.Superblock) *Superblock {
	return &Superblock{
		ID:              id,
		MerkleRoot:      sb.MerkleRoot,
		AccumulatedWork: (*math.HexOrDecimal256)(sb.AccumulatedWork),
		Timestamp:       sb.Timestamp,
		PrevTimestamp:   sb.PrevTimestamp,
		LastHash:        sb.LastHash,
		LastBits:        sb.LastBits,
		ParentID:        sb.ParentID,
		Height:          sb.Height,
		Status:          sb.Status.String(),
		Submitter:       sb.Submitter,
		Index:           sb.Index,
	}
}

type Superblocks struct {
	engine *engine.Engine
}

func New(engine *engine.Engine) *Superblocks {
	return &Superblocks{engine}
}

func (s *Superblocks) writeSuperblock(w http.ResponseWriter, id relay.Bytes32) error {
	sb, err := s.engine.Superblock(id)
	if err != nil {
		return err
	}
	if !sb.Exists() {
		return utils.NotFound(errors.New("superblock not found"))
	}
	return utils.WriteJSON(w, convertSuperblock(id, sb))
}

func (s *Superblocks) handleGetSuperblock(w http.ResponseWriter, req *http.Request) error {
	id, err := relay.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return s.writeSuperblock(w, id)
}

func (s *Superblocks) handleGetBest(w http.ResponseWriter, _ *http.Request) error {
	best, err := s.engine.Best()
	if err != nil {
		return err
	}
	return s.writeSuperblock(w, best)
}

func (s *Superblocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").
		Methods(http.MethodGet).
		Name("GET /superblocks/best").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetBest))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /superblocks/{id}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetSuperblock))
}
