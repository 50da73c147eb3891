// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package superblocks

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
	"github.com/vechain/relay/test/datagen"
)

func newChain(t *testing.T) (*Chain, relay.Bytes32) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	chain := NewChain(relay.BytesToAddress([]byte("superblocks")), state.New(db), nil)
	genesis, err := chain.Initialize(DefaultGenesis())
	require.NoError(t, err)
	return chain, genesis
}

func child(parent relay.Bytes32, work int64) *Header {
	return &Header{
		MerkleRoot:      datagen.RandomHash(),
		AccumulatedWork: big.NewInt(work),
		Timestamp:       uint64(work),
		ParentID:        parent,
	}
}

func TestInitialize(t *testing.T) {
	chain, genesis := newChain(t)

	best, err := chain.Best()
	require.NoError(t, err)
	assert.Equal(t, genesis, best)

	status, err := chain.Status(genesis)
	require.NoError(t, err)
	assert.Equal(t, Approved, status)

	at, err := chain.At(0)
	require.NoError(t, err)
	assert.Equal(t, genesis, at)

	assert.Panics(t, func() { chain.Initialize(DefaultGenesis()) })
}

func TestProposeAndTransitions(t *testing.T) {
	chain, genesis := newChain(t)
	submitter := datagen.RandAddress()

	h := child(genesis, 1)
	id, err := chain.Propose(h, submitter)
	require.NoError(t, err)
	assert.Equal(t, h.ID(), id)

	_, err = chain.Propose(h, submitter)
	assert.Equal(t, reverts.CodeSuperblockExists, reverts.Code(err))

	_, err = chain.Propose(child(datagen.RandomHash(), 1), submitter)
	assert.Equal(t, reverts.CodeBadParent, reverts.Code(err))

	// child of a New superblock is rejected
	_, err = chain.Propose(child(id, 2), submitter)
	assert.Equal(t, reverts.CodeBadParent, reverts.Code(err))

	sb, err := chain.Get(id)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), sb.Height)
	assert.Equal(t, New, sb.Status)
	assert.Equal(t, submitter, sb.Submitter)
	assert.Equal(t, uint64(1), sb.Index)

	require.NoError(t, chain.Challenge(id, datagen.RandAddress()))
	require.NoError(t, chain.Challenge(id, datagen.RandAddress()))
	require.NoError(t, chain.SemiApprove(id))
	assert.Equal(t, reverts.CodeBadStatus, reverts.Code(chain.Challenge(id, datagen.RandAddress())))

	require.NoError(t, chain.Invalidate(id))
	assert.Equal(t, reverts.CodeBadStatus, reverts.Code(chain.Confirm(id)))
	assert.Equal(t, reverts.CodeBadStatus, reverts.Code(chain.SemiApprove(datagen.RandomHash())))
}

func TestConfirmAndCanonical(t *testing.T) {
	chain, genesis := newChain(t)
	submitter := datagen.RandAddress()

	// branch a: a1 <- a2
	a1, err := chain.Propose(child(genesis, 10), submitter)
	require.NoError(t, err)
	require.NoError(t, chain.SemiApprove(a1))
	a2, err := chain.Propose(child(a1, 20), submitter)
	require.NoError(t, err)

	// parent not approved
	assert.Equal(t, reverts.CodeBadParent, reverts.Code(chain.Confirm(a2)))

	require.NoError(t, chain.Confirm(a1))
	require.NoError(t, chain.Confirm(a2))

	best, _ := chain.Best()
	assert.Equal(t, a2, best)
	at, _ := chain.At(2)
	assert.Equal(t, a2, at)

	// branch b overtakes with more work
	b1, err := chain.Propose(child(genesis, 15), submitter)
	require.NoError(t, err)
	require.NoError(t, chain.Confirm(b1))
	best, _ = chain.Best()
	assert.Equal(t, a2, best, "less work keeps best")

	b2, err := chain.Propose(child(b1, 25), submitter)
	require.NoError(t, err)
	_, err = chain.Propose(child(b2, 30), submitter)
	assert.Equal(t, reverts.CodeBadParent, reverts.Code(err), "parent still new")

	require.NoError(t, chain.SemiApprove(b2))
	b3, err := chain.Propose(child(b2, 30), submitter)
	require.NoError(t, err)
	require.NoError(t, chain.Confirm(b2))
	best, _ = chain.Best()
	assert.Equal(t, b2, best)
	require.NoError(t, chain.Confirm(b3))

	best, _ = chain.Best()
	assert.Equal(t, b3, best)
	for h, want := range []relay.Bytes32{genesis, b1, b2, b3} {
		at, err := chain.At(uint32(h))
		require.NoError(t, err)
		assert.Equal(t, want, at, "height %d", h)
	}
	height, _ := chain.Height(b3)
	assert.Equal(t, uint32(3), height)
	parent, _ := chain.ParentID(b3)
	assert.Equal(t, b2, parent)
}

func TestReorgToShorterBranch(t *testing.T) {
	chain, genesis := newChain(t)
	submitter := datagen.RandAddress()

	parent := genesis
	var long []relay.Bytes32
	for i := range 3 {
		id, err := chain.Propose(child(parent, int64(i+1)), submitter)
		require.NoError(t, err)
		require.NoError(t, chain.Confirm(id))
		long = append(long, id)
		parent = id
	}
	at, _ := chain.At(3)
	assert.Equal(t, long[2], at)

	short, err := chain.Propose(child(genesis, 100), submitter)
	require.NoError(t, err)
	require.NoError(t, chain.Confirm(short))

	best, _ := chain.Best()
	assert.Equal(t, short, best)
	at, _ = chain.At(1)
	assert.Equal(t, short, at)
	for h := uint32(2); h <= 3; h++ {
		at, err := chain.At(h)
		require.NoError(t, err)
		assert.True(t, at.IsZero(), "height %d", h)
	}
}
