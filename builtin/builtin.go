// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/relay/builtin/battle"
	"github.com/vechain/relay/builtin/claims"
	"github.com/vechain/relay/builtin/deposits"
	"github.com/vechain/relay/builtin/superblocks"
	"github.com/vechain/relay/relay"
	"github.com/vechain/relay/state"
)

// Builtin contract addresses.
var (
	Deposits    = relay.BytesToAddress([]byte("Deposits"))
	Superblocks = relay.BytesToAddress([]byte("Superblocks"))
	Battle      = relay.BytesToAddress([]byte("Battle"))
	Claims      = relay.BytesToAddress([]byte("Claims"))
)

// Contracts binds all builtin contracts to a state.
type Contracts struct {
	Deposits    *deposits.Ledger
	Superblocks *superblocks.Chain
	Battle      *battle.Arbiter
	Claims      *claims.Claims
}

// New creates the builtin contracts over the given state and binds the battle arbiter
// to the claim manager.
func New(st *state.State, cfg *relay.Config, env claims.Env) *Contracts {
	ledger := deposits.New(Deposits, st, env.Meter)
	chain := superblocks.NewChain(Superblocks, st, env.Meter)
	arbiter := battle.New(Battle, st, env.Meter)

	manager := claims.New(Claims, st, cfg, claims.Collaborators{
		Ledger:         ledger,
		Chain:          chain,
		Arbiter:        arbiter,
		ArbiterAddress: arbiter.Address(),
	}, env)
	arbiter.Bind(manager)

	return &Contracts{
		Deposits:    ledger,
		Superblocks: chain,
		Battle:      arbiter,
		Claims:      manager,
	}
}
