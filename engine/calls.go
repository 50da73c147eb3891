// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"math/big"

	"github.com/vechain/relay/builtin"
	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/relay"
)

// Initialize stores the genesis superblock. Initializing twice is a protocol violation.
func (e *Engine) Initialize(genesis *superblocks.Header) (id relay.Bytes32, err error) {
	err = e.execute(call{op: "initialize"}, func(c *builtin.Contracts) error {
		id, err = c.Superblocks.Initialize(genesis)
		return err
	})
	return
}

// Deposit credits the free balance of an account.
func (e *Engine) Deposit(account relay.Address, amount *big.Int) error {
	return e.execute(call{op: "deposit", account: account}, func(c *builtin.Contracts) error {
		return c.Deposits.Deposit(account, amount)
	})
}

// Withdraw debits the free balance of an account.
func (e *Engine) Withdraw(account relay.Address, amount *big.Int) error {
	return e.execute(call{op: "withdraw", account: account}, func(c *builtin.Contracts) error {
		return c.Deposits.Withdraw(account, amount)
	})
}

// Propose submits a superblock claim.
func (e *Engine) Propose(args claims.ProposeArgs) (id relay.Bytes32, err error) {
	err = e.execute(call{op: "propose", account: args.Submitter}, func(c *builtin.Contracts) error {
		id, err = c.Claims.Propose(args)
		return err
	})
	return
}

// Challenge challenges a claim.
func (e *Engine) Challenge(id relay.Bytes32, challenger relay.Address) error {
	return e.execute(call{op: "challenge", claimID: id, account: challenger}, func(c *builtin.Contracts) error {
		return c.Claims.Challenge(id, challenger)
	})
}

// CheckClaimFinished finalizes a claim.
func (e *Engine) CheckClaimFinished(id relay.Bytes32) error {
	return e.execute(call{op: "finalize", claimID: id}, func(c *builtin.Contracts) error {
		return c.Claims.CheckClaimFinished(id)
	})
}

// ConfirmClaim confirms a semi-approved claim backed by descendantID.
func (e *Engine) ConfirmClaim(id, descendantID relay.Bytes32) error {
	return e.execute(call{op: "confirm", claimID: id}, func(c *builtin.Contracts) error {
		return c.Claims.ConfirmClaim(id, descendantID)
	})
}

// RejectClaim rejects a semi-approved claim off the canonical chain.
func (e *Engine) RejectClaim(id relay.Bytes32) error {
	return e.execute(call{op: "reject", claimID: id}, func(c *builtin.Contracts) error {
		return c.Claims.RejectClaim(id)
	})
}

// Settle continues the payout of a decided claim.
func (e *Engine) Settle(id relay.Bytes32) error {
	return e.execute(call{op: "settle", claimID: id}, func(c *builtin.Contracts) error {
		return c.Claims.Settle(id)
	})
}

// Resolve decides a battle session through the builtin arbiter.
func (e *Engine) Resolve(sessionID relay.Bytes32, winner relay.Address) error {
	return e.execute(call{op: "resolve", account: winner}, func(c *builtin.Contracts) error {
		return c.Battle.Resolve(sessionID, winner)
	})
}
