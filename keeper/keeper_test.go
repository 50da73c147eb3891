// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package keeper

import (
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/builtin"
	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/engine"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/test/datagen"
)

type keeperTest struct {
	*engine.Engine
	t       *testing.T
	now     atomic.Uint64
	genesis relay.Bytes32
}

func newKeeperTest(t *testing.T) *keeperTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := relay.DefaultConfig()
	cfg.BattleReward = big.NewInt(100)
	cfg.MinProposalDeposit = big.NewInt(100)
	cfg.MinChallengeDeposit = big.NewInt(100)
	cfg.MaxSettlementsPerCall = 1

	kt := &keeperTest{t: t}
	kt.now.Store(1_700_000_000)
	kt.Engine, err = engine.New(db, cfg, engine.Options{Clock: kt.now.Load})
	require.NoError(t, err)
	kt.genesis, err = kt.Initialize(superblocks.DefaultGenesis())
	require.NoError(t, err)
	return kt
}

func (kt *keeperTest) funded() relay.Address {
	acc := datagen.RandAddress()
	require.NoError(kt.t, kt.Deposit(acc, big.NewInt(100)))
	return acc
}

func (kt *keeperTest) propose(submitter relay.Address) relay.Bytes32 {
	id, err := kt.Propose(claims.ProposeArgs{
		Header: superblocks.Header{
			MerkleRoot:      datagen.RandomHash(),
			AccumulatedWork: big.NewInt(1),
			Timestamp:       kt.Now() - kt.Config().ProposalDelay,
			LastHash:        datagen.RandomHash(),
			ParentID:        kt.genesis,
		},
		Submitter: submitter,
	})
	require.NoError(kt.t, err)
	return id
}

func (kt *keeperTest) session(id relay.Bytes32, challenger relay.Address) (session relay.Bytes32) {
	require.NoError(kt.t, kt.View(func(c *builtin.Contracts) (err error) {
		session, err = c.Claims.Session(id, challenger)
		return
	}))
	return
}

func TestRoundFinalizesAfterTimeout(t *testing.T) {
	kt := newKeeperTest(t)
	k := New(kt, time.Minute)
	id := kt.propose(kt.funded())

	stats, err := k.Round()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)

	kt.now.Add(kt.Config().ChallengeTimeout + 1)
	stats, err = k.Round()
	require.NoError(t, err)
	assert.Equal(t, Stats{Finalized: 1}, stats)

	claim, err := kt.Claim(id)
	require.NoError(t, err)
	assert.True(t, claim.Decided)

	stats, err = k.Round()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRoundSkipsRunningBattle(t *testing.T) {
	kt := newKeeperTest(t)
	k := New(kt, time.Minute)
	id := kt.propose(kt.funded())
	require.NoError(t, kt.Challenge(id, kt.funded()))

	kt.now.Add(kt.Config().ChallengeTimeout + 1)
	stats, err := k.Round()
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestRoundSettlesInSteps(t *testing.T) {
	kt := newKeeperTest(t)
	k := New(kt, time.Minute)

	submitter := kt.funded()
	id := kt.propose(submitter)
	challengers := []relay.Address{kt.funded(), kt.funded(), kt.funded()}
	for _, c := range challengers {
		require.NoError(t, kt.Challenge(id, c))
	}
	require.NoError(t, kt.Resolve(kt.session(id, challengers[0]), challengers[0]))

	stats, err := k.Round()
	require.NoError(t, err)
	assert.Equal(t, Stats{Finalized: 1}, stats)

	for range 2 {
		stats, err = k.Round()
		require.NoError(t, err)
		assert.Equal(t, Stats{Settled: 1}, stats)
	}

	pending, err := kt.PendingClaims(0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	balance, err := kt.Balance(challengers[0])
	require.NoError(t, err)
	assert.Equal(t, int64(200), balance.Int64())
	for _, c := range challengers[1:] {
		balance, err := kt.Balance(c)
		require.NoError(t, err)
		assert.Equal(t, int64(100), balance.Int64())
	}
}

func TestStartStop(t *testing.T) {
	kt := newKeeperTest(t)
	id := kt.propose(kt.funded())
	kt.now.Add(kt.Config().ChallengeTimeout + 1)

	k := New(kt, 10*time.Millisecond)
	k.Start()
	assert.Eventually(t, func() bool {
		claim, err := kt.Claim(id)
		return err == nil && claim.Decided
	}, time.Second, 10*time.Millisecond)
	k.Stop()
}

func TestRoundResumesAfterStuckClaims(t *testing.T) {
	kt := newKeeperTest(t)
	k := New(kt, time.Minute)
	k.perRound = 2

	// battles never resolve, so these stay pending ahead of the last claim
	for range 3 {
		require.NoError(t, kt.Challenge(kt.propose(kt.funded()), kt.funded()))
	}
	id := kt.propose(kt.funded())
	kt.now.Add(kt.Config().ChallengeTimeout + 1)

	var total Stats
	for range 2 {
		stats, err := k.Round()
		require.NoError(t, err)
		total.Finalized += stats.Finalized
	}
	assert.Equal(t, 1, total.Finalized)

	claim, err := kt.Claim(id)
	require.NoError(t, err)
	assert.True(t, claim.Decided)

	// wraps back to the head once the tail is reached
	for range 2 {
		_, err := k.Round()
		require.NoError(t, err)
	}
	pending, err := kt.PendingClaims(0)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
}
