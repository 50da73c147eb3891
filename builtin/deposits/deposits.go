// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package deposits implements the stake ledger holding the free balance of
// every account. Stake bonded into claims is accounted as locked.
package deposits

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/relay/builtin/reverts"
	"github.com/vechain/relay/builtin/solidity"
	"github.com/vechain/relay/log"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

var (
	logger = log.WithContext("pkg", "deposits")

	slotBalances = nameToSlot("balances")
	slotLocked   = nameToSlot("locked")
)

func nameToSlot(name string) relay.Bytes32 {
	return relay.BytesToBytes32([]byte(name))
}

// Ledger implements the deposit ledger contract.
type Ledger struct {
	balances *solidity.Mapping[relay.Address, *big.Int]
	locked   *solidity.Uint256
}

// New create a new instance.
func New(addr relay.Address, state *state.State, meter solidity.MeterFunc) *Ledger {
	sctx := solidity.NewContext(addr, state, meter)
	return &Ledger{
		balances: solidity.NewMapping[relay.Address, *big.Int](sctx, slotBalances),
		locked:   solidity.NewUint256(sctx, slotLocked),
	}
}

// FreeBalance returns the balance of account available for bonding and withdrawal.
func (l *Ledger) FreeBalance(account relay.Address) (*big.Int, error) {
	balance, err := l.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "get balance")
	}
	return balance, nil
}

// Locked returns the total amount bonded into claims.
func (l *Ledger) Locked() (*big.Int, error) {
	return l.locked.Get()
}

// Deposit credits the free balance of account.
func (l *Ledger) Deposit(account relay.Address, amount *big.Int) error {
	logger.Debug("deposit", "account", account, "amount", amount)
	if amount.Sign() <= 0 {
		return reverts.New(reverts.CodeInsufficientFunds, "deposit amount must be positive")
	}
	balance, err := l.FreeBalance(account)
	if err != nil {
		return err
	}
	return l.balances.Set(account, balance.Add(balance, amount))
}

// Withdraw debits the free balance of account.
func (l *Ledger) Withdraw(account relay.Address, amount *big.Int) error {
	logger.Debug("withdraw", "account", account, "amount", amount)
	if amount.Sign() <= 0 {
		return reverts.New(reverts.CodeInsufficientFunds, "withdraw amount must be positive")
	}
	balance, err := l.FreeBalance(account)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		logger.Info("withdraw failed", "account", account, "error", "insufficient balance")
		return reverts.New(reverts.CodeInsufficientFunds, "insufficient balance")
	}
	return l.balances.Set(account, balance.Sub(balance, amount))
}

// Bond moves amount from the free balance of account into the locked pool.
func (l *Ledger) Bond(account relay.Address, amount *big.Int) error {
	balance, err := l.FreeBalance(account)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return reverts.New(reverts.CodeInsufficientFunds, "insufficient balance to bond")
	}
	if err := l.balances.Set(account, balance.Sub(balance, amount)); err != nil {
		return err
	}
	return l.locked.Add(amount)
}

// Unbond releases amount from the locked pool to the free balance of account.
func (l *Ledger) Unbond(account relay.Address, amount *big.Int) error {
	locked, err := l.locked.Get()
	if err != nil {
		return err
	}
	if locked.Cmp(amount) < 0 {
		return errors.Errorf("unbond %v exceeds locked %v", amount, locked)
	}
	balance, err := l.FreeBalance(account)
	if err != nil {
		return err
	}
	if err := l.balances.Set(account, balance.Add(balance, amount)); err != nil {
		return err
	}
	l.locked.Set(locked.Sub(locked, amount))
	return nil
}
