// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/relay/builtin/battle"
	"github.com/vechain/relay/builtin/deposits"
	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/lvldb"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
	"github.com/vechain/relay/test/datagen"
)

const startTime = uint64(1_700_000_000)

var (
	reward        = big.NewInt(1000)
	initialFunds  = big.NewInt(10_000)
	arbiterAddr   = relay.BytesToAddress([]byte("battle"))
	claimsAddr    = relay.BytesToAddress([]byte("claims"))
	depositsAddr  = relay.BytesToAddress([]byte("deposits"))
	superblockKey = relay.BytesToAddress([]byte("superblocks"))
)

func testConfig() *relay.Config {
	return &relay.Config{
		BattleReward:          reward,
		MinProposalDeposit:    reward,
		MinChallengeDeposit:   reward,
		ProposalDelay:         60,
		ChallengeTimeout:      600,
		ConfirmationDepth:     3,
		MaxConfirmationWalk:   16,
		MaxSettlementsPerCall: 32,
	}
}

type claimsTest struct {
	*Claims
	t       *testing.T
	cfg     *relay.Config
	state   *state.State
	ledger  *deposits.Ledger
	chain   *superblocks.Chain
	arbiter *battle.Arbiter
	genesis relay.Bytes32
	events  []*relay.Event
}

func newTest(t *testing.T, configure ...func(*relay.Config)) *claimsTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := testConfig()
	for _, fn := range configure {
		fn(cfg)
	}
	require.NoError(t, cfg.Validate())

	st := state.New(db)
	ct := &claimsTest{
		t:       t,
		cfg:     cfg,
		state:   st,
		ledger:  deposits.New(depositsAddr, st, nil),
		chain:   superblocks.NewChain(superblockKey, st, nil),
		arbiter: battle.New(arbiterAddr, st, nil),
	}
	ct.Claims = New(claimsAddr, st, cfg, Collaborators{
		Ledger:         ct.ledger,
		Chain:          ct.chain,
		Arbiter:        ct.arbiter,
		ArbiterAddress: arbiterAddr,
	}, Env{
		Time: startTime,
		Emit: func(ev *relay.Event) { ct.events = append(ct.events, ev) },
	})
	ct.arbiter.Bind(ct.Claims)

	ct.genesis, err = ct.chain.Initialize(superblocks.DefaultGenesis())
	require.NoError(t, err)
	return ct
}

func (ct *claimsTest) now() uint64 {
	return ct.env.Time
}

func (ct *claimsTest) advance(seconds uint64) *claimsTest {
	ct.env.Time += seconds
	return ct
}

// afterTimeout moves the clock past the challenge timeout of id.
func (ct *claimsTest) afterTimeout(id relay.Bytes32) *claimsTest {
	timeout, err := ct.ChallengeTimeout(id)
	require.NoError(ct.t, err)
	if timeout >= ct.now() {
		ct.env.Time = timeout + 1
	}
	return ct
}

// account returns a funded account.
func (ct *claimsTest) account() relay.Address {
	acc := datagen.RandAddress()
	require.NoError(ct.t, ct.ledger.Deposit(acc, initialFunds))
	return acc
}

func (ct *claimsTest) balance(acc relay.Address) *big.Int {
	balance, err := ct.ledger.FreeBalance(acc)
	require.NoError(ct.t, err)
	return balance
}

func (ct *claimsTest) header(parent relay.Bytes32) *superblocks.Header {
	sb, err := ct.chain.Get(parent)
	require.NoError(ct.t, err)
	work := big.NewInt(1)
	if sb.AccumulatedWork != nil {
		work.Add(work, sb.AccumulatedWork)
	}
	return &superblocks.Header{
		MerkleRoot:      datagen.RandomHash(),
		AccumulatedWork: work,
		Timestamp:       ct.now() - ct.cfg.ProposalDelay,
		PrevTimestamp:   sb.Timestamp,
		LastHash:        datagen.RandomHash(),
		LastBits:        0x1d00ffff,
		ParentID:        parent,
	}
}

func (ct *claimsTest) propose(parent relay.Bytes32, submitter relay.Address) relay.Bytes32 {
	id, err := ct.Propose(ProposeArgs{Header: *ct.header(parent), Submitter: submitter})
	require.NoError(ct.t, err)
	return id
}

func (ct *claimsTest) challenge(id relay.Bytes32, challenger relay.Address) {
	require.NoError(ct.t, ct.Challenge(id, challenger))
}

// currentSession returns the session of the running battle.
func (ct *claimsTest) currentSession(id relay.Bytes32) (relay.Bytes32, relay.Address) {
	claim, err := ct.Get(id)
	require.NoError(ct.t, err)
	require.True(ct.t, claim.VerificationOngoing, "no battle running")
	challenger, err := ct.storage.getChallenger(id, claim.CurrentChallenger-1)
	require.NoError(ct.t, err)
	session, err := ct.Session(id, challenger)
	require.NoError(ct.t, err)
	return session, challenger
}

// resolve ends the running battle of id in favor of winner.
func (ct *claimsTest) resolve(id relay.Bytes32, winner relay.Address) {
	session, _ := ct.currentSession(id)
	require.NoError(ct.t, ct.arbiter.Resolve(session, winner))
}

func (ct *claimsTest) finish(id relay.Bytes32) {
	require.NoError(ct.t, ct.CheckClaimFinished(id))
}

func (ct *claimsTest) status(id relay.Bytes32) superblocks.Status {
	status, err := ct.chain.Status(id)
	require.NoError(ct.t, err)
	return status
}

func (ct *claimsTest) claim(id relay.Bytes32) *Claim {
	claim, err := ct.Get(id)
	require.NoError(ct.t, err)
	return claim
}

func (ct *claimsTest) bonded(id relay.Bytes32, acc relay.Address) *big.Int {
	bonded, err := ct.BondedDeposit(id, acc)
	require.NoError(ct.t, err)
	return bonded
}

func (ct *claimsTest) pending() []relay.Bytes32 {
	var ids []relay.Bytes32
	require.NoError(ct.t, ct.PendingClaims(func(id relay.Bytes32) error {
		ids = append(ids, id)
		return nil
	}))
	return ids
}

// named returns events of the given name, in emission order.
func (ct *claimsTest) named(name string) []*relay.Event {
	var out []*relay.Event
	for _, ev := range ct.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// semiApprovedChain proposes and finalizes n uncontested superblocks on top of parent.
func (ct *claimsTest) semiApprovedChain(parent relay.Bytes32, n int) []relay.Bytes32 {
	ids := make([]relay.Bytes32, 0, n)
	for range n {
		id := ct.propose(parent, ct.account())
		ct.afterTimeout(id).finish(id)
		require.Equal(ct.t, superblocks.SemiApproved, ct.status(id))
		ids = append(ids, id)
		parent = id
	}
	return ids
}

// approvedChain proposes and finalizes n uncontested superblocks on top of an approved parent.
func (ct *claimsTest) approvedChain(parent relay.Bytes32, n int) []relay.Bytes32 {
	ids := make([]relay.Bytes32, 0, n)
	for range n {
		id := ct.propose(parent, ct.account())
		ct.afterTimeout(id).finish(id)
		require.Equal(ct.t, superblocks.Approved, ct.status(id))
		ids = append(ids, id)
		parent = id
	}
	return ids
}

func assertRevert(t *testing.T, code uint32, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, reverts.IsRevertErr(err), "expected revert, got %v", err)
	assert.Equal(t, code, reverts.Code(err), "unexpected revert %v", err)
}

func mul(a *big.Int, n int64) *big.Int {
	return new(big.Int).Mul(a, big.NewInt(n))
}

func add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

func sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}
