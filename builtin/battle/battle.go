// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package battle implements the arbiter registry of verification sessions.
// How a session finds its winner is external: Resolve is called with the
// outcome and reported back to the bound listener.
package battle

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

var (
	logger = log.WithContext("pkg", "battle")

	slotSessions = nameToSlot("sessions")
	slotSequence = nameToSlot("sequence")
)

func nameToSlot(name string) relay.Bytes32 {
	return relay.BytesToBytes32([]byte(name))
}

// Listener receives the outcome of a session.
type Listener interface {
	SessionDecided(caller relay.Address, sessionID, claimID relay.Bytes32, winner, loser relay.Address) error
}

// Session is a verification game between the submitter of a claim and one challenger.
type Session struct {
	ClaimID    relay.Bytes32
	Submitter  relay.Address
	Challenger relay.Address
	Decided    bool
	Winner     relay.Address
	Loser      relay.Address
}

// Exists returns whether the session was ever started.
func (s *Session) Exists() bool {
	return !s.ClaimID.IsZero()
}

// Arbiter implements the battle arbiter contract.
type Arbiter struct {
	addr     relay.Address
	sessions *solidity.Mapping[relay.Bytes32, *Session]
	sequence *solidity.Uint256
	listener Listener
}

// New create a new instance.
func New(addr relay.Address, state *state.State, meter solidity.MeterFunc) *Arbiter {
	sctx := solidity.NewContext(addr, state, meter)
	return &Arbiter{
		addr:     addr,
		sessions: solidity.NewMapping[relay.Bytes32, *Session](sctx, slotSessions),
		sequence: solidity.NewUint256(sctx, slotSequence),
	}
}

// Address returns the identity the arbiter reports outcomes with.
func (a *Arbiter) Address() relay.Address {
	return a.addr
}

// Bind sets the listener of session outcomes. It panics if already bound.
func (a *Arbiter) Bind(listener Listener) {
	if a.listener != nil {
		panic(errors.New("battle arbiter already bound"))
	}
	a.listener = listener
}

// BeginSession starts a session and returns its id.
func (a *Arbiter) BeginSession(claimID relay.Bytes32, submitter, challenger relay.Address) (relay.Bytes32, error) {
	seq, err := a.sequence.Get()
	if err != nil {
		return relay.Bytes32{}, err
	}
	var b8 [8]byte
	binary.BigEndian.PutUint64(b8[:], seq.Uint64())
	id := relay.Keccak256(claimID[:], challenger[:], b8[:])

	if err := a.sessions.Set(id, &Session{
		ClaimID:    claimID,
		Submitter:  submitter,
		Challenger: challenger,
	}); err != nil {
		return relay.Bytes32{}, err
	}
	if err := a.sequence.Add(big.NewInt(1)); err != nil {
		return relay.Bytes32{}, err
	}
	logger.Debug("session started", "session", id, "claim", claimID, "challenger", challenger)
	return id, nil
}

// Session returns a session, absent sessions report Exists false.
func (a *Arbiter) Session(id relay.Bytes32) (*Session, error) {
	session, err := a.sessions.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return session, nil
}

// Resolve records the winner of a session and reports the outcome to the listener.
func (a *Arbiter) Resolve(id relay.Bytes32, winner relay.Address) error {
	if a.listener == nil {
		panic(errors.New("battle arbiter not bound"))
	}
	session, err := a.Session(id)
	if err != nil {
		return err
	}
	if !session.Exists() {
		return reverts.Newf(reverts.CodeBadSession, "session %v not found", id.AbbrevString())
	}
	if session.Decided {
		return reverts.Newf(reverts.CodeBadSession, "session %v already decided", id.AbbrevString())
	}

	switch winner {
	case session.Submitter:
		session.Loser = session.Challenger
	case session.Challenger:
		session.Loser = session.Submitter
	default:
		return reverts.Newf(reverts.CodeBadSession, "%v is not a party of session %v", winner, id.AbbrevString())
	}
	session.Winner = winner
	session.Decided = true
	if err := a.sessions.Set(id, session); err != nil {
		return err
	}
	logger.Debug("session resolved", "session", id, "winner", session.Winner, "loser", session.Loser)
	return a.listener.SessionDecided(a.addr, id, session.ClaimID, session.Winner, session.Loser)
}
