// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package claims

import (
	"math/big"

	"github.com/vechain/relay/relay"
)

// bond locks amount of account's free balance into the claim.
func (c *Claims) bond(id relay.Bytes32, account relay.Address, amount *big.Int) error {
	if err := c.ledger.Bond(account, amount); err != nil {
		return err
	}
	bonded, err := c.storage.getBonded(id, account)
	if err != nil {
		return err
	}
	if err := c.storage.setBonded(id, account, bonded.Add(bonded, amount)); err != nil {
		return err
	}
	c.emit(&relay.Event{Name: relay.EventDepositBonded, ClaimID: id, Account: account, Amount: new(big.Int).Set(amount)})
	return nil
}

// release returns amount of locked stake to the free balance of account.
func (c *Claims) release(id relay.Bytes32, account relay.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	if err := c.ledger.Unbond(account, amount); err != nil {
		return err
	}
	c.emit(&relay.Event{Name: relay.EventDepositUnbonded, ClaimID: id, Account: account, Amount: new(big.Int).Set(amount)})
	return nil
}

// payChallengers starts the payout of a lost claim. The submitter bond
// becomes the reward pool of battled challengers. Without any battled
// challenger the pool goes back to the submitter.
func (c *Claims) payChallengers(id relay.Bytes32, claim *Claim) error {
	pool, err := c.storage.getBonded(id, claim.Submitter)
	if err != nil {
		return err
	}
	if err := c.storage.setBonded(id, claim.Submitter, new(big.Int)); err != nil {
		return err
	}
	claim.Settlement = Settlement{
		Kind:        SettlementPayChallengers,
		Pool:        pool,
		Distributed: new(big.Int),
	}
	if claim.BattledDeposits.Sign() == 0 {
		if err := c.release(id, claim.Submitter, pool); err != nil {
			return err
		}
		claim.Settlement.Pool = new(big.Int)
	}
	return c.settle(id, claim)
}

// paySubmitter starts the payout of a confirmed claim. Every challenger bond
// is absorbed into the submitter bond, which is released at the end.
func (c *Claims) paySubmitter(id relay.Bytes32, claim *Claim) error {
	claim.Settlement = Settlement{
		Kind:        SettlementPaySubmitter,
		Pool:        new(big.Int),
		Distributed: new(big.Int),
	}
	return c.settle(id, claim)
}

// settle advances the payout over at most MaxSettlementsPerCall challengers.
func (c *Claims) settle(id relay.Bytes32, claim *Claim) error {
	s := &claim.Settlement
	for n := uint32(0); s.Cursor < claim.ChallengerCount && n < c.cfg.MaxSettlementsPerCall; n++ {
		index := s.Cursor
		challenger, err := c.storage.getChallenger(id, index)
		if err != nil {
			return err
		}
		bond, err := c.storage.getBonded(id, challenger)
		if err != nil {
			return err
		}
		if err := c.storage.setBonded(id, challenger, new(big.Int)); err != nil {
			return err
		}

		switch s.Kind {
		case SettlementPayChallengers:
			amount := bond
			if index < claim.CurrentChallenger && s.Pool.Sign() > 0 {
				var reward *big.Int
				if index == claim.CurrentChallenger-1 {
					// the last battled challenger takes the remainder
					reward = new(big.Int).Sub(s.Pool, s.Distributed)
				} else {
					reward = new(big.Int).Mul(s.Pool, bond)
					reward.Quo(reward, claim.BattledDeposits)
				}
				s.Distributed = new(big.Int).Add(s.Distributed, reward)
				amount = new(big.Int).Add(bond, reward)
			}
			if err := c.release(id, challenger, amount); err != nil {
				return err
			}
		case SettlementPaySubmitter:
			s.Pool = new(big.Int).Add(s.Pool, bond)
			submitterBond, err := c.storage.getBonded(id, claim.Submitter)
			if err != nil {
				return err
			}
			if err := c.storage.setBonded(id, claim.Submitter, submitterBond.Add(submitterBond, bond)); err != nil {
				return err
			}
		}
		s.Cursor++
	}
	if s.Cursor < claim.ChallengerCount {
		return nil
	}

	if s.Kind == SettlementPaySubmitter {
		total, err := c.storage.getBonded(id, claim.Submitter)
		if err != nil {
			return err
		}
		if err := c.storage.setBonded(id, claim.Submitter, new(big.Int)); err != nil {
			return err
		}
		if err := c.release(id, claim.Submitter, total); err != nil {
			return err
		}
	}
	s.Done = true
	return nil
}
