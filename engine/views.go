// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package engine

import (
	"math/big"

	"github.com/vechain/relay/builtin"
	"github.com/vechain/relay/builtin/battle"
	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/relay"
)

// Claim returns the claim with the given id, absent claims report Exists false.
func (e *Engine) Claim(id relay.Bytes32) (claim *claims.Claim, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		claim, err = c.Claims.Get(id)
		return err
	})
	return
}

// Challengers returns the challengers of a claim in admission order.
func (e *Engine) Challengers(id relay.Bytes32) (challengers []relay.Address, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		challengers, err = c.Claims.Challengers(id)
		return err
	})
	return
}

// BondedDeposit returns the stake an account has bonded to a claim.
func (e *Engine) BondedDeposit(id relay.Bytes32, account relay.Address) (amount *big.Int, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		amount, err = c.Claims.BondedDeposit(id, account)
		return err
	})
	return
}

// PendingClaims returns up to limit ids of claims not yet decided or settled.
// A zero limit returns all of them.
func (e *Engine) PendingClaims(limit int) ([]relay.Bytes32, error) {
	return e.PendingClaimsAfter(relay.Bytes32{}, limit)
}

// PendingClaimsAfter is PendingClaims resuming after the given claim, or from
// the oldest when after is zero or no longer pending.
func (e *Engine) PendingClaimsAfter(after relay.Bytes32, limit int) (ids []relay.Bytes32, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		return c.Claims.PendingClaimsAfter(after, func(id relay.Bytes32) error {
			if limit > 0 && len(ids) >= limit {
				return errStopIter
			}
			ids = append(ids, id)
			return nil
		})
	})
	if err == errStopIter {
		err = nil
	}
	return
}

// Superblock returns the superblock with the given id, absent ones report Exists false.
func (e *Engine) Superblock(id relay.Bytes32) (sb *superblocks.Superblock, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		sb, err = c.Superblocks.Get(id)
		return err
	})
	return
}

// Best returns the id of the approved superblock with the most accumulated work.
func (e *Engine) Best() (id relay.Bytes32, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		id, err = c.Superblocks.Best()
		return err
	})
	return
}

// Genesis returns the id of the genesis superblock, zero before Initialize.
func (e *Engine) Genesis() (id relay.Bytes32, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		id, err = c.Superblocks.At(0)
		return err
	})
	return
}

// Session returns a battle session.
func (e *Engine) Session(id relay.Bytes32) (session *battle.Session, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		session, err = c.Battle.Session(id)
		return err
	})
	return
}

// Balance returns the free balance of an account.
func (e *Engine) Balance(account relay.Address) (balance *big.Int, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		balance, err = c.Deposits.FreeBalance(account)
		return err
	})
	return
}

// Locked returns the total amount bonded to claims.
func (e *Engine) Locked() (locked *big.Int, err error) {
	err = e.View(func(c *builtin.Contracts) error {
		locked, err = c.Deposits.Locked()
		return err
	})
	return
}
