// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package deposits

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

func newLedger(t *testing.T) *Ledger {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(relay.BytesToAddress([]byte("deposits")), state.New(db), nil)
}

func TestDepositWithdraw(t *testing.T) {
	ledger := newLedger(t)
	acc := datagen.RandAddress()

	balance, err := ledger.FreeBalance(acc)
	require.NoError(t, err)
	assert.Equal(t, 0, balance.Sign())

	require.NoError(t, ledger.Deposit(acc, big.NewInt(100)))
	require.NoError(t, ledger.Withdraw(acc, big.NewInt(40)))

	balance, err = ledger.FreeBalance(acc)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), balance)

	err = ledger.Withdraw(acc, big.NewInt(61))
	assert.Equal(t, reverts.CodeInsufficientFunds, reverts.Code(err))

	err = ledger.Deposit(acc, big.NewInt(0))
	assert.True(t, reverts.IsRevertErr(err))
}

func TestBondUnbond(t *testing.T) {
	ledger := newLedger(t)
	a, b := datagen.RandAddress(), datagen.RandAddress()
	require.NoError(t, ledger.Deposit(a, big.NewInt(100)))

	require.NoError(t, ledger.Bond(a, big.NewInt(70)))
	err := ledger.Bond(a, big.NewInt(31))
	assert.Equal(t, reverts.CodeInsufficientFunds, reverts.Code(err))

	locked, err := ledger.Locked()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(70), locked)

	// locked stake can be released to any account
	require.NoError(t, ledger.Unbond(b, big.NewInt(50)))
	require.NoError(t, ledger.Unbond(a, big.NewInt(20)))
	assert.Error(t, ledger.Unbond(a, big.NewInt(1)))

	balanceA, _ := ledger.FreeBalance(a)
	balanceB, _ := ledger.FreeBalance(b)
	assert.Equal(t, big.NewInt(50), balanceA)
	assert.Equal(t, big.NewInt(50), balanceB)

	locked, err = ledger.Locked()
	require.NoError(t, err)
	assert.Equal(t, 0, locked.Sign())
}
