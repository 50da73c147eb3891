// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
	"github.com/vechain/relay/test/datagen"
)

type outcome struct {
	caller         relay.Address
	session, claim relay.Bytes32
	winner, loser  relay.Address
}

type recorder struct {
	outcomes []outcome
}

func (r *recorder) SessionDecided(caller relay.Address, sessionID, claimID relay.Bytes32, winner, loser relay.Address) error {
	r.outcomes = append(r.outcomes, outcome{caller, sessionID, claimID, winner, loser})
	return nil
}

func newArbiter(t *testing.T) (*Arbiter, *recorder) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	arbiter := New(relay.BytesToAddress([]byte("battle")), state.New(db), nil)
	rec := &recorder{}
	arbiter.Bind(rec)
	return arbiter, rec
}

func TestBeginAndResolve(t *testing.T) {
	arbiter, rec := newArbiter(t)
	claim := datagen.RandomHash()
	submitter, challenger := datagen.RandAddress(), datagen.RandAddress()

	s1, err := arbiter.BeginSession(claim, submitter, challenger)
	require.NoError(t, err)
	s2, err := arbiter.BeginSession(claim, submitter, challenger)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2, "session ids are unique")

	err = arbiter.Resolve(s1, datagen.RandAddress())
	assert.Equal(t, reverts.CodeBadSession, reverts.Code(err))

	require.NoError(t, arbiter.Resolve(s1, challenger))
	require.Len(t, rec.outcomes, 1)
	assert.Equal(t, outcome{arbiter.Address(), s1, claim, challenger, submitter}, rec.outcomes[0])

	session, err := arbiter.Session(s1)
	require.NoError(t, err)
	assert.True(t, session.Decided)
	assert.Equal(t, submitter, session.Loser)

	err = arbiter.Resolve(s1, challenger)
	assert.Equal(t, reverts.CodeBadSession, reverts.Code(err))

	err = arbiter.Resolve(datagen.RandomHash(), challenger)
	assert.Equal(t, reverts.CodeBadSession, reverts.Code(err))
}

func TestBind(t *testing.T) {
	arbiter, _ := newArbiter(t)
	assert.Panics(t, func() { arbiter.Bind(&recorder{}) })

	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	unbound := New(relay.Address{}, state.New(db), nil)
	assert.Panics(t, func() { unbound.Resolve(relay.Bytes32{}, relay.Address{}) })
}
