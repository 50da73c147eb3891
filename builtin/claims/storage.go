// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/relay"
)

var (
	slotClaims       = nameToSlot("claims")
	slotChallengers  = nameToSlot("challengers")
	slotBonded       = nameToSlot("bonded")
	slotSessions     = nameToSlot("sessions")
	slotPendingHead  = nameToSlot("pending-head")
	slotPendingTail  = nameToSlot("pending-tail")
	slotPendingCount = nameToSlot("pending-count")
)

func nameToSlot(name string) relay.Bytes32 {
	return relay.BytesToBytes32([]byte(name))
}

type storage struct {
	claims      *solidity.Mapping[relay.Bytes32, *Claim]
	challengers *solidity.Mapping[indexKey, relay.Address]
	bonded      *solidity.Mapping[accountKey, *big.Int]
	sessions    *solidity.Mapping[accountKey, relay.Bytes32]
	pending     *pendingList
}

func newStorage(sctx *solidity.Context) *storage {
	return &storage{
		claims:      solidity.NewMapping[relay.Bytes32, *Claim](sctx, slotClaims),
		challengers: solidity.NewMapping[indexKey, relay.Address](sctx, slotChallengers),
		bonded:      solidity.NewMapping[accountKey, *big.Int](sctx, slotBonded),
		sessions:    solidity.NewMapping[accountKey, relay.Bytes32](sctx, slotSessions),
		pending:     newPendingList(sctx, slotPendingHead, slotPendingTail, slotPendingCount),
	}
}

// getClaim returns the claim, absent claims report Exists false.
func (s *storage) getClaim(id relay.Bytes32) (*Claim, error) {
	claim, err := s.claims.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "get claim")
	}
	if claim.BattledDeposits == nil {
		claim.BattledDeposits = new(big.Int)
	}
	if claim.Settlement.Pool == nil {
		claim.Settlement.Pool = new(big.Int)
	}
	if claim.Settlement.Distributed == nil {
		claim.Settlement.Distributed = new(big.Int)
	}
	return claim, nil
}

// setClaim stores the claim and keeps its pending list membership.
func (s *storage) setClaim(id relay.Bytes32, claim *Claim) error {
	if err := s.claims.Set(id, claim); err != nil {
		return errors.Wrap(err, "set claim")
	}
	want := !claim.Decided || claim.Settling()
	has, err := s.pending.Contains(id)
	if err != nil {
		return err
	}
	switch {
	case want && !has:
		return s.pending.Add(id)
	case !want && has:
		return s.pending.Remove(id)
	}
	return nil
}

func (s *storage) getChallenger(id relay.Bytes32, index uint32) (relay.Address, error) {
	return s.challengers.Get(indexKey{id, index})
}

func (s *storage) appendChallenger(id relay.Bytes32, claim *Claim, challenger relay.Address) error {
	if err := s.challengers.Set(indexKey{id, claim.ChallengerCount}, challenger); err != nil {
		return err
	}
	claim.ChallengerCount++
	return nil
}

func (s *storage) getBonded(id relay.Bytes32, account relay.Address) (*big.Int, error) {
	return s.bonded.Get(accountKey{id, account})
}

func (s *storage) setBonded(id relay.Bytes32, account relay.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		s.bonded.Delete(accountKey{id, account})
		return nil
	}
	return s.bonded.Set(accountKey{id, account}, amount)
}

func (s *storage) getSession(id relay.Bytes32, challenger relay.Address) (relay.Bytes32, error) {
	return s.sessions.Get(accountKey{id, challenger})
}

func (s *storage) setSession(id relay.Bytes32, challenger relay.Address, session relay.Bytes32) error {
	return s.sessions.Set(accountKey{id, challenger}, session)
}
