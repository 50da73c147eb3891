// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package claims implements the claim manager: proposal, challenge intake,
// FIFO battle scheduling, finalization, confirmation and stake payout.
//
// Expected failures are returned as *reverts.ErrRevert. Protocol violations,
// such as an unauthorized session callback, panic.
package claims

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

var logger = log.WithContext("pkg", "claims")

func SetLogger(l log.Logger) {
	logger = l
}

// Env is the environment an operation executes in.
type Env struct {
	Time  uint64
	Emit  relay.EmitFunc
	Meter solidity.MeterFunc
}

// Claims implements the claim manager contract.
type Claims struct {
	cfg     *relay.Config
	ledger  DepositLedger
	chain   SuperblockChain
	arbiter BattleArbiter

	arbiterAddr relay.Address
	env         Env
	storage     *storage
}

// New create a new instance.
func New(addr relay.Address, state *state.State, cfg *relay.Config, collab Collaborators, env Env) *Claims {
	if env.Emit == nil {
		env.Emit = func(*relay.Event) {}
	}
	return &Claims{
		cfg:         cfg,
		ledger:      collab.Ledger,
		chain:       collab.Chain,
		arbiter:     collab.Arbiter,
		arbiterAddr: collab.ArbiterAddress,
		env:         env,
		storage:     newStorage(solidity.NewContext(addr, state, env.Meter)),
	}
}

func (c *Claims) emit(ev *relay.Event) {
	ev.Timestamp = c.env.Time
	c.env.Emit(ev)
}

func fail(op string, id relay.Bytes32, code uint32, msg string) error {
	logger.Info(op+" failed", "claim", id, "code", code, "error", msg)
	return reverts.New(code, msg)
}

// getExisting loads a claim, failing with a revert if absent.
func (c *Claims) getExisting(op string, id relay.Bytes32) (*Claim, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return nil, err
	}
	if !claim.Exists() {
		return nil, fail(op, id, reverts.CodeBadClaim, "claim not found")
	}
	return claim, nil
}

// Propose creates the claim of a new superblock and bonds the submitter's stake.
func (c *Claims) Propose(args ProposeArgs) (relay.Bytes32, error) {
	logger.Debug("propose", "submitter", args.Submitter, "parent", args.ParentID, "timestamp", args.Timestamp)

	balance, err := c.ledger.FreeBalance(args.Submitter)
	if err != nil {
		return relay.Bytes32{}, err
	}
	if balance.Cmp(c.cfg.MinProposalDeposit) < 0 {
		return relay.Bytes32{}, fail("propose", relay.Bytes32{}, reverts.CodeInsufficientFunds, "insufficient deposit to propose")
	}
	if args.Timestamp > c.env.Time || c.env.Time-args.Timestamp < c.cfg.ProposalDelay {
		return relay.Bytes32{}, fail("propose", relay.Bytes32{}, reverts.CodeBadTimestamp, "superblock is not mature")
	}

	id, err := c.chain.Propose(&args.Header, args.Submitter)
	if err != nil {
		logger.Info("propose failed", "submitter", args.Submitter, "error", err)
		return relay.Bytes32{}, err
	}

	claim, err := c.storage.getClaim(id)
	if err != nil {
		return relay.Bytes32{}, err
	}
	if claim.Exists() {
		panic(errors.Errorf("claim %v already exists", id))
	}
	claim = &Claim{
		Submitter:        args.Submitter,
		CreatedAt:        c.env.Time,
		ChallengeTimeout: c.env.Time + c.cfg.ChallengeTimeout,
		BattledDeposits:  new(big.Int),
	}
	c.emit(&relay.Event{Name: relay.EventClaimCreated, ClaimID: id, Account: args.Submitter})

	if err := c.bond(id, args.Submitter, c.cfg.BattleReward); err != nil {
		if reverts.IsRevertErr(err) {
			panic(errors.Wrap(err, "bond proposal deposit"))
		}
		return relay.Bytes32{}, err
	}
	if err := c.storage.setClaim(id, claim); err != nil {
		return relay.Bytes32{}, err
	}
	return id, nil
}

// Challenge admits a challenger and schedules its battle when no battle is running.
func (c *Claims) Challenge(id relay.Bytes32, challenger relay.Address) error {
	logger.Debug("challenge", "claim", id, "challenger", challenger)

	claim, err := c.getExisting("challenge", id)
	if err != nil {
		return err
	}
	if claim.Decided {
		return fail("challenge", id, reverts.CodeClaimDecided, "claim already decided")
	}
	if challenger == claim.Submitter {
		return fail("challenge", id, reverts.CodeBadChallenger, "submitter cannot challenge own claim")
	}
	bonded, err := c.storage.getBonded(id, challenger)
	if err != nil {
		return err
	}
	if bonded.Sign() > 0 {
		return fail("challenge", id, reverts.CodeBadChallenger, "already challenged")
	}
	balance, err := c.ledger.FreeBalance(challenger)
	if err != nil {
		return err
	}
	if balance.Cmp(c.cfg.MinChallengeDeposit) < 0 {
		return fail("challenge", id, reverts.CodeInsufficientFunds, "insufficient deposit to challenge")
	}

	if err := c.chain.Challenge(id, challenger); err != nil {
		logger.Info("challenge failed", "claim", id, "error", err)
		return err
	}
	if err := c.bond(id, challenger, c.cfg.BattleReward); err != nil {
		return err
	}
	claim.ChallengeTimeout = c.env.Time + c.cfg.ChallengeTimeout
	if err := c.storage.appendChallenger(id, claim, challenger); err != nil {
		return err
	}
	c.emit(&relay.Event{Name: relay.EventClaimChallenged, ClaimID: id, Account: challenger})

	if err := c.runNextBattle(id, claim); err != nil {
		return err
	}
	return c.storage.setClaim(id, claim)
}

// runNextBattle begins the session of the next queued challenger, if any.
func (c *Claims) runNextBattle(id relay.Bytes32, claim *Claim) error {
	if claim.Invalid || claim.VerificationOngoing || claim.CurrentChallenger >= claim.ChallengerCount {
		return nil
	}
	challenger, err := c.storage.getChallenger(id, claim.CurrentChallenger)
	if err != nil {
		return err
	}
	session, err := c.arbiter.BeginSession(id, claim.Submitter, challenger)
	if err != nil {
		return err
	}
	if err := c.storage.setSession(id, challenger, session); err != nil {
		return err
	}
	bonded, err := c.storage.getBonded(id, challenger)
	if err != nil {
		return err
	}
	claim.BattledDeposits = new(big.Int).Add(claim.BattledDeposits, bonded)
	claim.VerificationOngoing = true
	claim.CurrentChallenger++

	c.emit(&relay.Event{
		Name:         relay.EventVerificationGameStarted,
		ClaimID:      id,
		Account:      claim.Submitter,
		Counterparty: challenger,
		SessionID:    session,
	})
	return nil
}

// SessionDecided receives the outcome of the running battle of a claim.
// It panics if caller is not the arbiter, or if winner and loser are not
// the submitter and the current challenger.
func (c *Claims) SessionDecided(caller relay.Address, sessionID, id relay.Bytes32, winner, loser relay.Address) error {
	logger.Debug("session decided", "claim", id, "session", sessionID, "winner", winner, "loser", loser)

	if caller != c.arbiterAddr {
		panic(errors.Errorf("session callback from unauthorized caller %v", caller))
	}
	claim, err := c.getExisting("session decided", id)
	if err != nil {
		return err
	}
	if !claim.VerificationOngoing {
		return fail("session decided", id, reverts.CodeNoVerification, "no verification ongoing")
	}

	challenger, err := c.storage.getChallenger(id, claim.CurrentChallenger-1)
	if err != nil {
		return err
	}
	session, err := c.storage.getSession(id, challenger)
	if err != nil {
		return err
	}
	if session != sessionID {
		panic(errors.Errorf("session %v is not the running battle of claim %v", sessionID, id))
	}

	switch {
	case winner == claim.Submitter && loser == challenger:
	case winner == challenger && loser == claim.Submitter:
		claim.Invalid = true
	default:
		panic(errors.Errorf("session %v decided between unrelated parties %v and %v", sessionID, winner, loser))
	}
	claim.VerificationOngoing = false
	c.emit(&relay.Event{
		Name:         relay.EventBattleDecided,
		ClaimID:      id,
		Account:      winner,
		Counterparty: loser,
		SessionID:    sessionID,
	})

	if err := c.runNextBattle(id, claim); err != nil {
		return err
	}
	return c.storage.setClaim(id, claim)
}

// CheckClaimFinished finalizes a claim once its battles are over and, for
// valid claims, its challenge timeout elapsed.
func (c *Claims) CheckClaimFinished(id relay.Bytes32) error {
	logger.Debug("check claim finished", "claim", id)

	claim, err := c.getExisting("check claim finished", id)
	if err != nil {
		return err
	}
	if claim.Decided {
		return fail("check claim finished", id, reverts.CodeClaimDecided, "claim already decided")
	}
	if claim.VerificationOngoing {
		return fail("check claim finished", id, reverts.CodeVerificationPending, "verification ongoing")
	}

	if claim.Invalid {
		claim.Decided = true
		if err := c.chain.Invalidate(id); err != nil {
			return err
		}
		if err := c.payChallengers(id, claim); err != nil {
			return err
		}
		c.emit(&relay.Event{Name: relay.EventClaimFailed, ClaimID: id, Account: claim.Submitter})
		return c.storage.setClaim(id, claim)
	}

	if c.env.Time <= claim.ChallengeTimeout {
		return fail("check claim finished", id, reverts.CodeNoTimeout, "challenge timeout not reached")
	}
	if claim.CurrentChallenger < claim.ChallengerCount {
		return fail("check claim finished", id, reverts.CodeVerificationPending, "challengers remain")
	}

	claim.Decided = true
	parentID, err := c.chain.ParentID(id)
	if err != nil {
		return err
	}
	parentStatus, err := c.chain.Status(parentID)
	if err != nil {
		return err
	}
	if claim.ChallengerCount == 0 && parentStatus == superblocks.Approved {
		if err := c.chain.Confirm(id); err != nil {
			return err
		}
		if err := c.paySubmitter(id, claim); err != nil {
			return err
		}
		c.emit(&relay.Event{Name: relay.EventClaimSuccessful, ClaimID: id, Account: claim.Submitter})
	} else {
		if err := c.chain.SemiApprove(id); err != nil {
			return err
		}
		c.emit(&relay.Event{Name: relay.EventClaimPending, ClaimID: id, Account: claim.Submitter})
	}
	return c.storage.setClaim(id, claim)
}

// ConfirmClaim approves a semi-approved claim once descendantID, linked
// through semi-approved superblocks, is deep enough. Uncontested ancestors of
// descendantID are confirmed along with it, closest to id first.
func (c *Claims) ConfirmClaim(id, descendantID relay.Bytes32) error {
	logger.Debug("confirm claim", "claim", id, "descendant", descendantID)

	claim, err := c.getExisting("confirm claim", id)
	if err != nil {
		return err
	}
	status, err := c.chain.Status(id)
	if err != nil {
		return err
	}
	if status != superblocks.SemiApproved || !claim.Decided {
		return fail("confirm claim", id, reverts.CodeBadStatus, "claim is not semi-approved")
	}

	var (
		descendants        []relay.Bytes32
		confirmDescendants = true
		cur                = descendantID
	)
	for cur != id {
		if uint32(len(descendants)) >= c.cfg.MaxConfirmationWalk {
			return fail("confirm claim", id, reverts.CodeWalkTooLong, "descendant too far")
		}
		status, err := c.chain.Status(cur)
		if err != nil {
			return err
		}
		if status != superblocks.SemiApproved {
			return fail("confirm claim", id, reverts.CodeBadStatus, "descendant chain is not semi-approved")
		}
		descendant, err := c.storage.getClaim(cur)
		if err != nil {
			return err
		}
		if !descendant.Exists() {
			return fail("confirm claim", id, reverts.CodeBadClaim, "descendant claim not found")
		}
		if descendant.ChallengerCount > 0 {
			confirmDescendants = false
		}
		descendants = append(descendants, cur)
		if cur, err = c.chain.ParentID(cur); err != nil {
			return err
		}
	}
	if uint32(len(descendants)) < c.cfg.ConfirmationDepth {
		return fail("confirm claim", id, reverts.CodeMissingConfirmations, "not enough confirmations")
	}

	parentID, err := c.chain.ParentID(id)
	if err != nil {
		return err
	}
	parentStatus, err := c.chain.Status(parentID)
	if err != nil {
		return err
	}
	if parentStatus != superblocks.Approved {
		return fail("confirm claim", id, reverts.CodeBadParent, "parent is not approved")
	}

	if err := c.confirm(id, claim); err != nil {
		return err
	}
	if confirmDescendants {
		for i := len(descendants) - 1; i >= 0; i-- {
			descendant, err := c.storage.getClaim(descendants[i])
			if err != nil {
				return err
			}
			if err := c.confirm(descendants[i], descendant); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Claims) confirm(id relay.Bytes32, claim *Claim) error {
	if err := c.chain.Confirm(id); err != nil {
		return err
	}
	if err := c.paySubmitter(id, claim); err != nil {
		return err
	}
	c.emit(&relay.Event{Name: relay.EventClaimSuccessful, ClaimID: id, Account: claim.Submitter})
	return c.storage.setClaim(id, claim)
}

// RejectClaim invalidates a semi-approved claim left off the canonical branch,
// once the best branch leads it by the confirmation depth.
func (c *Claims) RejectClaim(id relay.Bytes32) error {
	logger.Debug("reject claim", "claim", id)

	claim, err := c.getExisting("reject claim", id)
	if err != nil {
		return err
	}
	height, err := c.chain.Height(id)
	if err != nil {
		return err
	}
	bestID, err := c.chain.Best()
	if err != nil {
		return err
	}
	bestHeight, err := c.chain.Height(bestID)
	if err != nil {
		return err
	}
	if uint64(bestHeight) < uint64(height)+uint64(c.cfg.ConfirmationDepth) {
		return fail("reject claim", id, reverts.CodeMissingConfirmations, "best branch lead too short")
	}
	canonical, err := c.chain.At(height)
	if err != nil {
		return err
	}
	if canonical == id {
		return fail("reject claim", id, reverts.CodeBadClaim, "claim is on the canonical branch")
	}
	status, err := c.chain.Status(id)
	if err != nil {
		return err
	}
	if status != superblocks.SemiApproved || !claim.Decided {
		return fail("reject claim", id, reverts.CodeBadStatus, "claim is not semi-approved")
	}

	if err := c.chain.Invalidate(id); err != nil {
		return err
	}
	if err := c.payChallengers(id, claim); err != nil {
		return err
	}
	c.emit(&relay.Event{Name: relay.EventClaimFailed, ClaimID: id, Account: claim.Submitter})
	return c.storage.setClaim(id, claim)
}

// Settle continues the payout of a decided claim.
func (c *Claims) Settle(id relay.Bytes32) error {
	logger.Debug("settle", "claim", id)

	claim, err := c.getExisting("settle", id)
	if err != nil {
		return err
	}
	if !claim.Settling() {
		return fail("settle", id, reverts.CodeNothingToSettle, "nothing to settle")
	}
	if err := c.settle(id, claim); err != nil {
		return err
	}
	return c.storage.setClaim(id, claim)
}
