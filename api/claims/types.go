// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/relay"
)

type Settlement struct {
	Kind        string                `json:"kind"`
	Pool        *math.HexOrDecimal256 `json:"pool"`
	Distributed *math.HexOrDecimal256 `json:"distributed"`
	Cursor      uint32                `json:"cursor"`
	Done        bool                  `json:"done"`
}

type Claim struct {
	ID                  relay.Bytes32         `json:"id"`
	Submitter           relay.Address         `json:"submitter"`
	CreatedAt           uint64                `json:"createdAt"`
	Challengers         uint32                `json:"challengers"`
	CurrentChallenger   uint32                `json:"currentChallenger"`
	ChallengeTimeout    uint64                `json:"challengeTimeout"`
	VerificationOngoing bool                  `json:"verificationOngoing"`
	Decided             bool                  `json:"decided"`
	Invalid             bool                  `json:"invalid"`
	BattledDeposits     *math.HexOrDecimal256 `json:"battledDeposits"`
	Settlement          *Settlement           `json:"settlement,omitempty"`
}

func convertClaim(id relay.Bytes32, c *claims.Claim) *Claim {
	claim := &Claim{
		ID:                  id,
		Submitter:           c.Submitter,
		CreatedAt:           c.CreatedAt,
		Challengers:         c.ChallengerCount,
		CurrentChallenger:   c.CurrentChallenger,
		ChallengeTimeout:    c.ChallengeTimeout,
		VerificationOngoing: c.VerificationOngoing,
		Decided:             c.Decided,
		Invalid:             c.Invalid,
		BattledDeposits:     amount(c.BattledDeposits),
	}
	if c.Settlement.Kind != claims.SettlementNone {
		claim.Settlement = &Settlement{
			Kind:        c.Settlement.Kind.String(),
			Pool:        amount(c.Settlement.Pool),
			Distributed: amount(c.Settlement.Distributed),
			Cursor:      c.Settlement.Cursor,
			Done:        c.Settlement.Done,
		}
	}
	return claim
}

func amount(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

// ProposeRequest proposes a superblock.
type ProposeRequest struct {
	MerkleRoot      relay.Bytes32         `json:"merkleRoot"`
	AccumulatedWork *math.HexOrDecimal256 `json:"accumulatedWork"`
	Timestamp       uint64                `json:"timestamp"`
	PrevTimestamp   uint64                `json:"prevTimestamp"`
	LastHash        relay.Bytes32         `json:"lastHash"`
	LastBits        uint32                `json:"lastBits"`
	ParentID        relay.Bytes32         `json:"parentId"`
	Submitter       relay.Address         `json:"submitter"`
}

func (r *ProposeRequest) args() claims.ProposeArgs {
	work := new(big.Int)
	if r.AccumulatedWork != nil {
		work = (*big.Int)(r.AccumulatedWork)
	}
	return claims.ProposeArgs{
		Header: superblocks.Header{
			MerkleRoot:      r.MerkleRoot,
			AccumulatedWork: work,
			Timestamp:       r.Timestamp,
			PrevTimestamp:   r.PrevTimestamp,
			LastHash:        r.LastHash,
			LastBits:        r.LastBits,
			ParentID:        r.ParentID,
		},
		Submitter: r.Submitter,
	}
}

type ChallengeRequest struct {
	Challenger relay.Address `json:"challenger"`
}

type ConfirmRequest struct {
	DescendantID relay.Bytes32 `json:"descendantId"`
}

type Deposit struct {
	Amount *math.HexOrDecimal256 `json:"amount"`
}
