// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"

	"github.com/vechain/relay/relay"
)

//
// Getters - no state change. Absent claims read as zero values.
//

// Get returns the claim record.
func (c *Claims) Get(id relay.Bytes32) (*Claim, error) {
	return c.storage.getClaim(id)
}

func (c *Claims) Exists(id relay.Bytes32) (bool, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return false, err
	}
	return claim.Exists(), nil
}

func (c *Claims) IsDecided(id relay.Bytes32) (bool, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return false, err
	}
	return claim.Decided, nil
}

func (c *Claims) IsInvalid(id relay.Bytes32) (bool, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return false, err
	}
	return claim.Invalid, nil
}

func (c *Claims) IsVerificationOngoing(id relay.Bytes32) (bool, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return false, err
	}
	return claim.VerificationOngoing, nil
}

func (c *Claims) ChallengeTimeout(id relay.Bytes32) (uint64, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return 0, err
	}
	return claim.ChallengeTimeout, nil
}

// RemainingChallengers returns the count of challengers without a scheduled battle.
func (c *Claims) RemainingChallengers(id relay.Bytes32) (uint32, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return 0, err
	}
	return claim.ChallengerCount - claim.CurrentChallenger, nil
}

// Session returns the battle session of challenger, zero if its battle never started.
func (c *Claims) Session(id relay.Bytes32, challenger relay.Address) (relay.Bytes32, error) {
	return c.storage.getSession(id, challenger)
}

// Challengers returns challengers in arrival order.
func (c *Claims) Challengers(id relay.Bytes32) ([]relay.Address, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return nil, err
	}
	challengers := make([]relay.Address, 0, claim.ChallengerCount)
	for i := uint32(0); i < claim.ChallengerCount; i++ {
		challenger, err := c.storage.getChallenger(id, i)
		if err != nil {
			return nil, err
		}
		challengers = append(challengers, challenger)
	}
	return challengers, nil
}

func (c *Claims) Submitter(id relay.Bytes32) (relay.Address, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return relay.Address{}, err
	}
	return claim.Submitter, nil
}

func (c *Claims) CreatedAt(id relay.Bytes32) (uint64, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return 0, err
	}
	return claim.CreatedAt, nil
}

// BondedDeposit returns the stake account has locked in the claim.
func (c *Claims) BondedDeposit(id relay.Bytes32, account relay.Address) (*big.Int, error) {
	return c.storage.getBonded(id, account)
}

// PendingSettlements returns the count of challengers the payout still has to visit.
func (c *Claims) PendingSettlements(id relay.Bytes32) (uint32, error) {
	claim, err := c.storage.getClaim(id)
	if err != nil {
		return 0, err
	}
	if !claim.Settling() {
		return 0, nil
	}
	return claim.ChallengerCount - claim.Settlement.Cursor, nil
}

// PendingClaims traverses undecided claims and claims with an unfinished
// payout, oldest first.
func (c *Claims) PendingClaims(callback func(relay.Bytes32) error) error {
	return c.storage.pending.Iter(callback)
}

// PendingClaimsAfter is PendingClaims resuming after the given claim. It starts
// over from the oldest when after is zero or no longer pending.
func (c *Claims) PendingClaimsAfter(after relay.Bytes32, callback func(relay.Bytes32) error) error {
	return c.storage.pending.IterAfter(after, callback)
}

// PendingCount returns the count of pending claims.
func (c *Claims) PendingCount() (uint64, error) {
	return c.storage.pending.Len()
}
